package api

import (
	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/feed"
	"github.com/podsift/podsift/app/ingest"
	"github.com/podsift/podsift/app/tasks"
)

type Handler struct {
	feeds     database.FeedStore
	episodes  database.EpisodeStore
	validator *feed.Validator
	refresher *ingest.Refresher
	scheduler tasks.TaskSchedulerInterface
}

type subscribeRequest struct {
	URL string `json:"url" binding:"required"`
}

type validateRequest struct {
	URL string `json:"url" binding:"required"`
}
