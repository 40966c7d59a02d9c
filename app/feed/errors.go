package feed

import (
	"fmt"
)

// FetchError reports a failure to retrieve a feed document: network error,
// non-2xx status, or timeout. Timeout is set when the fetch deadline expired
// so callers can message it distinctly from a generic network failure.
type FetchError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("feed took too long to respond: %s", e.URL)
	case e.StatusCode != 0:
		return fmt.Sprintf("feed unreachable: %s returned HTTP %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("feed unreachable: %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a document that was fetched but is not well-formed
// RSS/Atom.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed malformed: %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
