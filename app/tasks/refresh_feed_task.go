package tasks

import (
	"context"
	"log/slog"

	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/ingest"
)

// RefreshFeedTask refreshes one subscribed feed in the background.
type RefreshFeedTask struct {
	Task
	Feed      database.Feed
	refresher *ingest.Refresher
}

func NewRefreshFeedTask(sub database.Feed, refresher *ingest.Refresher) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:      NewTask(TaskTypeRefreshFeed, sub.FeedURL),
		Feed:      sub,
		refresher: refresher,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result := t.refresher.RefreshOne(ctx, t.Feed)
	if result.Err != nil {
		return result.Err
	}

	slog.Info("Task completed",
		"type", "RefreshFeed",
		"feed", t.FeedURL,
		"duration", t.GetDuration(),
		"new", result.NewEpisodes)

	return nil
}
