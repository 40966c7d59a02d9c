package database

import (
	"context"

	"github.com/podsift/podsift/app/feed"
)

// FeedStore is the subscription side of the store contract. The refresh
// pipeline treats it as an opaque row store keyed by feed ID.
type FeedStore interface {
	AddFeed(ctx context.Context, feedURL string) (*Feed, error)
	GetFeed(ctx context.Context, id string) (*Feed, error)
	GetFeedByURL(ctx context.Context, feedURL string) (*Feed, error)
	ListFeeds(ctx context.Context) ([]Feed, error)
	ListFeedsDue(ctx context.Context) ([]Feed, error)
	UpdateFeedMetadata(ctx context.Context, id string, meta FeedMetadata) error
	RemoveFeed(ctx context.Context, id string) error
}

// EpisodeStore is the episode side of the store contract, keyed by
// (feed ID, GUID). Inserts are idempotent on that key.
type EpisodeStore interface {
	FindEpisodeGUIDs(ctx context.Context, feedID string, guids []string) (map[string]struct{}, error)
	InsertEpisodes(ctx context.Context, feedID string, episodes []feed.Episode) error
	ListEpisodes(ctx context.Context, feedID string, limit int) ([]feed.Episode, error)
	CountEpisodes(ctx context.Context, feedID string) (int, error)
}
