package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/podsift/podsift/app/feed"
)

// EpisodeRepository is the SQLite-backed EpisodeStore. recentWindow drives
// the derived isNew flag on listings.
type EpisodeRepository struct {
	db           *DB
	recentWindow time.Duration
}

var _ EpisodeStore = (*EpisodeRepository)(nil)

func NewEpisodeRepository(db *DB, recentWindow time.Duration) *EpisodeRepository {
	if recentWindow <= 0 {
		recentWindow = 7 * 24 * time.Hour
	}
	return &EpisodeRepository{db: db, recentWindow: recentWindow}
}

// FindEpisodeGUIDs returns the subset of guids already stored for a feed.
func (r *EpisodeRepository) FindEpisodeGUIDs(ctx context.Context, feedID string, guids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(guids))
	if len(guids) == 0 {
		return existing, nil
	}

	placeholders := strings.Repeat("?,", len(guids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(guids)+1)
	args = append(args, feedID)
	for _, g := range guids {
		args = append(args, g)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT guid FROM episodes
		WHERE feed_id = ? AND guid IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query episode guids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, fmt.Errorf("failed to scan guid row: %w", err)
		}
		existing[guid] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guid rows: %w", err)
	}

	return existing, nil
}

// InsertEpisodes stores a batch of parsed episodes. Identity is
// (feed_id, guid); re-inserting a known episode is a no-op, so a refresh
// that races another is harmless. Parse-time episode IDs are discarded in
// favor of storage-assigned ones.
func (r *EpisodeRepository) InsertEpisodes(ctx context.Context, feedID string, episodes []feed.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (
			id, feed_id, guid, title, description, published_at,
			duration_seconds, audio_url, artwork_url, chapters_url,
			transcript_url, season, episode_number, episode_type, explicit, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_id, guid) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range episodes {
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(), feedID, e.GUID, e.Title, e.Description, e.PublishedAt,
			e.DurationSeconds, e.AudioURL, e.Artwork, e.ChaptersURL,
			e.TranscriptURL, e.Season, e.EpisodeNumber, string(e.Type), e.Explicit, now)
		if err != nil {
			return fmt.Errorf("failed to insert episode %q: %w", e.GUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit episode batch: %w", err)
	}
	return nil
}

// ListEpisodes returns the stored episodes for a feed, newest first.
func (r *EpisodeRepository) ListEpisodes(ctx context.Context, feedID string, limit int) ([]feed.Episode, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.guid, e.title, e.description, e.published_at,
		       e.duration_seconds, e.audio_url, e.artwork_url, e.chapters_url,
		       e.transcript_url, e.season, e.episode_number, e.episode_type, e.explicit,
		       f.title
		FROM episodes e
		JOIN feeds f ON f.id = e.feed_id
		WHERE e.feed_id = ?
		ORDER BY COALESCE(e.published_at, e.created_at) DESC
		LIMIT ?
	`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []feed.Episode
	for rows.Next() {
		var e feed.Episode
		var episodeType string
		var season, episodeNumber sql.NullInt64
		err := rows.Scan(
			&e.ID, &e.GUID, &e.Title, &e.Description, &e.PublishedAt,
			&e.DurationSeconds, &e.AudioURL, &e.Artwork, &e.ChaptersURL,
			&e.TranscriptURL, &season, &episodeNumber, &episodeType, &e.Explicit,
			&e.PodcastTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}
		e.PodcastID = feedID
		e.Type = feed.EpisodeType(episodeType)
		e.Duration = feed.FormatDuration(e.DurationSeconds)
		e.IsNew = feed.IsRecent(e.PublishedAt, r.recentWindow)
		if season.Valid {
			n := int(season.Int64)
			e.Season = &n
		}
		if episodeNumber.Valid {
			n := int(episodeNumber.Int64)
			e.EpisodeNumber = &n
		}
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating episode rows: %w", err)
	}

	return episodes, nil
}

func (r *EpisodeRepository) CountEpisodes(ctx context.Context, feedID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM episodes WHERE feed_id = ?`, feedID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count episodes: %w", err)
	}
	return count, nil
}
