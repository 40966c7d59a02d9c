package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/feed"
	"github.com/podsift/podsift/app/ingest"
	"github.com/podsift/podsift/app/tasks"
)

func NewHandler(feeds database.FeedStore, episodes database.EpisodeStore,
	validator *feed.Validator, refresher *ingest.Refresher,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		feeds:     feeds,
		episodes:  episodes,
		validator: validator,
		refresher: refresher,
		scheduler: scheduler,
	}
}

// ValidateFeed checks a URL without subscribing to it.
func (h *Handler) ValidateFeed(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url field"})
		return
	}

	result := h.validator.Run(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, result)
}

// SubscribeFeed validates a URL, registers the subscription and runs the
// first refresh inline so the caller immediately sees episodes.
func (h *Handler) SubscribeFeed(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url field"})
		return
	}

	ctx := c.Request.Context()
	result := h.validator.Run(ctx, req.URL)
	if !result.IsValid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	feedURL := feed.NormalizeURL(req.URL)
	sub, err := h.feeds.AddFeed(ctx, feedURL)
	if err != nil {
		slog.Error("Database error", "operation", "add_feed", "url", feedURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register subscription"})
		return
	}

	refresh := h.refresher.RefreshOne(ctx, *sub)
	if refresh.Err != nil {
		slog.Warn("Initial refresh failed", "feed", feedURL, "error", refresh.Err)
	}

	sub, err = h.feeds.GetFeed(ctx, sub.ID)
	if err != nil || sub == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"feed":        sub,
		"newEpisodes": refresh.NewEpisodes,
		"metadata":    result.Metadata,
	})
}

func (h *Handler) ListFeeds(c *gin.Context) {
	subs, err := h.feeds.ListFeeds(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": subs,
		"total": len(subs),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	sub, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	count, _ := h.episodes.CountEpisodes(c.Request.Context(), sub.ID)
	c.JSON(http.StatusOK, gin.H{
		"feed":         sub,
		"episodeCount": count,
	})
}

func (h *Handler) ListEpisodes(c *gin.Context) {
	sub, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	episodes, err := h.episodes.ListEpisodes(c.Request.Context(), sub.ID, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_episodes", "feed", sub.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"episodes": episodes,
		"total":    len(episodes),
	})
}

// RefreshFeed enqueues a background refresh for one feed.
func (h *Handler) RefreshFeed(c *gin.Context) {
	sub, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	task := tasks.NewRefreshFeedTask(*sub, h.refresher)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing refresh task", "feed", sub.FeedURL, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue refresh task"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled", "feed": sub.FeedURL})
}

// RefreshAll refreshes every subscription inline and reports the aggregate.
func (h *Handler) RefreshAll(c *gin.Context) {
	aggregate, err := h.refresher.RefreshEverything(c.Request.Context())
	if err != nil {
		slog.Error("Refresh orchestration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

func (h *Handler) UnsubscribeFeed(c *gin.Context) {
	sub, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	if err := h.feeds.RemoveFeed(c.Request.Context(), sub.ID); err != nil {
		slog.Error("Database error", "operation", "remove_feed", "feed", sub.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if subs, err := h.feeds.ListFeeds(c.Request.Context()); err == nil {
		health["feeds"] = len(subs)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) lookupFeed(c *gin.Context) (*database.Feed, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing feed id parameter"})
		return nil, false
	}

	sub, err := h.feeds.GetFeed(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return nil, false
	}

	return sub, true
}
