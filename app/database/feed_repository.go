package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedRepository is the SQLite-backed FeedStore.
type FeedRepository struct {
	db *DB
}

var _ FeedStore = (*FeedRepository)(nil)

func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

const feedColumns = `id, feed_url, title, description, publisher, artwork_url, website_url,
       language, explicit, last_checked_at, next_refresh_at, created_at, updated_at`

// AddFeed registers a subscription. Subscribing to an already-known URL
// returns the existing row unchanged.
func (r *FeedRepository) AddFeed(ctx context.Context, feedURL string) (*Feed, error) {
	existing, err := r.GetFeedByURL(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, feed_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, id, feedURL, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to add feed: %w", err)
	}

	return r.GetFeed(ctx, id)
}

func (r *FeedRepository) GetFeed(ctx context.Context, id string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE id = ?
	`, id)
	return scanFeed(row)
}

func (r *FeedRepository) GetFeedByURL(ctx context.Context, feedURL string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE feed_url = ?
	`, feedURL)
	return scanFeed(row)
}

func (r *FeedRepository) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		ORDER BY title, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	return collectFeeds(rows)
}

// ListFeedsDue returns feeds whose next refresh time has passed (or was
// never set, i.e. freshly added feeds).
func (r *FeedRepository) ListFeedsDue(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE next_refresh_at IS NULL OR next_refresh_at <= ?
		ORDER BY next_refresh_at
	`, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds due for refresh: %w", err)
	}
	defer rows.Close()

	return collectFeeds(rows)
}

func (r *FeedRepository) UpdateFeedMetadata(ctx context.Context, id string, meta FeedMetadata) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET title = ?, description = ?, publisher = ?, artwork_url = ?, website_url = ?,
		    language = ?, explicit = ?, last_checked_at = ?, next_refresh_at = ?, updated_at = ?
		WHERE id = ?
	`, meta.Title, meta.Description, meta.Publisher, meta.Artwork, meta.Website,
		meta.Language, meta.Explicit, meta.LastCheckedAt, meta.NextRefreshAt,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update feed metadata: %w", err)
	}
	return nil
}

func (r *FeedRepository) RemoveFeed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove feed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedInto(s rowScanner, f *Feed) error {
	return s.Scan(
		&f.ID, &f.FeedURL, &f.Title, &f.Description, &f.Publisher, &f.Artwork,
		&f.Website, &f.Language, &f.Explicit, &f.LastCheckedAt, &f.NextRefreshAt,
		&f.CreatedAt, &f.UpdatedAt,
	)
}

func scanFeed(row *sql.Row) (*Feed, error) {
	var f Feed
	err := scanFeedInto(row, &f)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed row: %w", err)
	}
	return &f, nil
}

func collectFeeds(rows *sql.Rows) ([]Feed, error) {
	var feeds []Feed
	for rows.Next() {
		var f Feed
		if err := scanFeedInto(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}
	return feeds, nil
}
