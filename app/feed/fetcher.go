package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8"

// Fetcher retrieves feed documents over HTTP. Mirrors is an ordered list of
// endpoint prefixes (the escaped feed URL is appended) tried after the
// direct fetch fails; each attempt gets its own timeout and the first
// success wins. Retrying the same endpoint is left to callers.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	mirrors   []string
}

func NewFetcher(client *http.Client, userAgent string, timeout time.Duration, mirrors []string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		mirrors:   mirrors,
	}
}

// Run fetches the document at feedURL, falling through the mirror chain on
// failure. The returned error is always a *FetchError describing the last
// attempt.
func (f *Fetcher) Run(ctx context.Context, feedURL string) ([]byte, error) {
	endpoints := make([]string, 0, len(f.mirrors)+1)
	endpoints = append(endpoints, feedURL)
	for _, mirror := range f.mirrors {
		endpoints = append(endpoints, mirror+url.QueryEscape(feedURL))
	}

	var lastErr error
	for i, endpoint := range endpoints {
		data, err := f.fetchOne(ctx, endpoint)
		if err == nil {
			if i > 0 {
				slog.Debug("Feed fetched via mirror", "url", feedURL, "mirror", endpoint)
			}
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	fetchErr := &FetchError{URL: feedURL, Err: lastErr}
	var inner *FetchError
	if errors.As(lastErr, &inner) {
		inner.URL = feedURL
		fetchErr = inner
	}
	return nil, fetchErr
}

func (f *Fetcher) fetchOne(ctx context.Context, endpoint string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Timeout: isTimeout(err), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
