package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/podsift/podsift/app/feed"
)

// MemoryStore is an in-memory implementation of both store interfaces. It
// backs tests and ephemeral deployments that do not want a database file,
// mirroring the SQLite repositories' semantics (idempotent inserts keyed by
// feed ID + GUID).
type MemoryStore struct {
	mu           sync.RWMutex
	feeds        map[string]*Feed
	episodes     map[string][]feed.Episode
	guids        map[string]map[string]struct{}
	recentWindow time.Duration
}

var (
	_ FeedStore    = (*MemoryStore)(nil)
	_ EpisodeStore = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		feeds:        make(map[string]*Feed),
		episodes:     make(map[string][]feed.Episode),
		guids:        make(map[string]map[string]struct{}),
		recentWindow: 7 * 24 * time.Hour,
	}
}

func (s *MemoryStore) AddFeed(ctx context.Context, feedURL string) (*Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.feeds {
		if f.FeedURL == feedURL {
			copied := *f
			return &copied, nil
		}
	}

	now := time.Now().UTC()
	f := &Feed{
		ID:        uuid.NewString(),
		FeedURL:   feedURL,
		Language:  "en",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.feeds[f.ID] = f
	s.guids[f.ID] = make(map[string]struct{})

	copied := *f
	return &copied, nil
}

func (s *MemoryStore) GetFeed(ctx context.Context, id string) (*Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.feeds[id]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (s *MemoryStore) GetFeedByURL(ctx context.Context, feedURL string) (*Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.feeds {
		if f.FeedURL == feedURL {
			copied := *f
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListFeeds(ctx context.Context) ([]Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feeds := make([]Feed, 0, len(s.feeds))
	for _, f := range s.feeds {
		feeds = append(feeds, *f)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].Title < feeds[j].Title })
	return feeds, nil
}

func (s *MemoryStore) ListFeedsDue(ctx context.Context) ([]Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	var due []Feed
	for _, f := range s.feeds {
		if f.NextRefreshAt == nil || !f.NextRefreshAt.After(now) {
			due = append(due, *f)
		}
	}
	return due, nil
}

func (s *MemoryStore) UpdateFeedMetadata(ctx context.Context, id string, meta FeedMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.feeds[id]
	if !ok {
		return nil
	}
	f.Title = meta.Title
	f.Description = meta.Description
	f.Publisher = meta.Publisher
	f.Artwork = meta.Artwork
	f.Website = meta.Website
	f.Language = meta.Language
	f.Explicit = meta.Explicit
	lastChecked := meta.LastCheckedAt
	nextRefresh := meta.NextRefreshAt
	f.LastCheckedAt = &lastChecked
	f.NextRefreshAt = &nextRefresh
	f.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) RemoveFeed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.feeds, id)
	delete(s.episodes, id)
	delete(s.guids, id)
	return nil
}

func (s *MemoryStore) FindEpisodeGUIDs(ctx context.Context, feedID string, guids []string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := make(map[string]struct{}, len(guids))
	known := s.guids[feedID]
	for _, g := range guids {
		if _, ok := known[g]; ok {
			existing[g] = struct{}{}
		}
	}
	return existing, nil
}

func (s *MemoryStore) InsertEpisodes(ctx context.Context, feedID string, episodes []feed.Episode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := s.guids[feedID]
	if known == nil {
		known = make(map[string]struct{})
		s.guids[feedID] = known
	}

	for _, e := range episodes {
		if _, ok := known[e.GUID]; ok {
			continue
		}
		e.ID = uuid.NewString()
		e.PodcastID = feedID
		known[e.GUID] = struct{}{}
		s.episodes[feedID] = append(s.episodes[feedID], e)
	}
	return nil
}

func (s *MemoryStore) ListEpisodes(ctx context.Context, feedID string, limit int) ([]feed.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.episodes[feedID]
	episodes := make([]feed.Episode, len(stored))
	copy(episodes, stored)
	for i := range episodes {
		episodes[i].IsNew = feed.IsRecent(episodes[i].PublishedAt, s.recentWindow)
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		ti, tj := episodes[i].PublishedAt, episodes[j].PublishedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})

	if limit > 0 && len(episodes) > limit {
		episodes = episodes[:limit]
	}
	return episodes, nil
}

func (s *MemoryStore) CountEpisodes(ctx context.Context, feedID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.episodes[feedID]), nil
}
