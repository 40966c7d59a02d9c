package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/feed"
)

// RefreshResult reports the outcome of refreshing one feed.
type RefreshResult struct {
	FeedID      string `json:"feedId"`
	FeedURL     string `json:"feedUrl"`
	Title       string `json:"title"`
	NewEpisodes int    `json:"newEpisodes"`
	Err         error  `json:"-"`
}

// AggregateResult summarizes a multi-feed refresh. The aggregate succeeds
// whenever the orchestration ran; per-feed failures land in Errors.
type AggregateResult struct {
	TotalFeeds   int      `json:"totalFeeds"`
	UpdatedFeeds int      `json:"updatedFeeds"`
	NewEpisodes  int      `json:"newEpisodes"`
	Errors       []string `json:"errors"`
}

// Refresher re-parses subscribed feeds, refreshes their stored metadata and
// inserts whatever episodes the planner marks as new.
type Refresher struct {
	parser          *feed.Parser
	feeds           database.FeedStore
	episodes        database.EpisodeStore
	planner         *Planner
	refreshInterval time.Duration
}

func NewRefresher(parser *feed.Parser, feeds database.FeedStore, episodes database.EpisodeStore,
	planner *Planner, refreshInterval time.Duration) *Refresher {
	if refreshInterval <= 0 {
		refreshInterval = 15 * time.Minute
	}
	return &Refresher{
		parser:          parser,
		feeds:           feeds,
		episodes:        episodes,
		planner:         planner,
		refreshInterval: refreshInterval,
	}
}

// RefreshOne re-parses a single feed: metadata update first, then the
// episode plan, then batched inserts. Prior batches stay inserted when a
// later batch fails; the feed catches up on its next refresh since inserts
// are idempotent by GUID.
func (r *Refresher) RefreshOne(ctx context.Context, sub database.Feed) RefreshResult {
	result := RefreshResult{FeedID: sub.ID, FeedURL: sub.FeedURL, Title: sub.Title}

	parsed, err := r.parser.Parse(ctx, sub.FeedURL)
	if err != nil {
		result.Err = err
		return result
	}
	result.Title = parsed.Podcast.Title

	now := time.Now().UTC()
	meta := database.FeedMetadata{
		Title:         parsed.Podcast.Title,
		Description:   parsed.Podcast.Description,
		Publisher:     parsed.Podcast.Publisher,
		Artwork:       parsed.Podcast.Artwork,
		Website:       parsed.Podcast.Website,
		Language:      parsed.Podcast.Language,
		Explicit:      parsed.Podcast.Explicit,
		LastCheckedAt: now,
		NextRefreshAt: now.Add(r.refreshInterval),
	}
	if err := r.feeds.UpdateFeedMetadata(ctx, sub.ID, meta); err != nil {
		result.Err = fmt.Errorf("failed to update feed metadata: %w", err)
		return result
	}

	plan, err := r.planner.Run(ctx, sub.ID, parsed.Episodes)
	if err != nil {
		result.Err = err
		return result
	}

	for _, batch := range r.planner.Batches(plan) {
		if err := r.episodes.InsertEpisodes(ctx, sub.ID, batch); err != nil {
			result.Err = fmt.Errorf("failed to insert episode batch (kept %d already inserted): %w",
				result.NewEpisodes, err)
			return result
		}
		result.NewEpisodes += len(batch)
	}

	slog.Info("Feed refreshed",
		"feed", sub.FeedURL,
		"title", result.Title,
		"episodes", len(parsed.Episodes),
		"new", result.NewEpisodes)

	return result
}

// RefreshAll fans out RefreshOne over every subscription concurrently and
// waits for all of them, so wall-clock time is bounded by the slowest feed.
// One feed failing never stops the others.
func (r *Refresher) RefreshAll(ctx context.Context, subs []database.Feed) AggregateResult {
	aggregate := AggregateResult{TotalFeeds: len(subs)}
	if len(subs) == 0 {
		return aggregate
	}

	results := make([]RefreshResult, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub database.Feed) {
			defer wg.Done()
			results[i] = r.RefreshOne(ctx, sub)
		}(i, sub)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			slog.Warn("Feed refresh failed", "feed", res.FeedURL, "error", res.Err)
			aggregate.Errors = append(aggregate.Errors, fmt.Sprintf("%s: %v", res.FeedURL, res.Err))
			continue
		}
		aggregate.UpdatedFeeds++
		aggregate.NewEpisodes += res.NewEpisodes
	}

	return aggregate
}

// RefreshDue refreshes every feed whose schedule has come up.
func (r *Refresher) RefreshDue(ctx context.Context) (AggregateResult, error) {
	subs, err := r.feeds.ListFeedsDue(ctx)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("failed to list feeds due for refresh: %w", err)
	}
	return r.RefreshAll(ctx, subs), nil
}

// RefreshEverything refreshes all subscriptions regardless of schedule.
func (r *Refresher) RefreshEverything(ctx context.Context) (AggregateResult, error) {
	subs, err := r.feeds.ListFeeds(ctx)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("failed to list feeds: %w", err)
	}
	return r.RefreshAll(ctx, subs), nil
}
