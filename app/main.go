package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/podsift/podsift/app/api"
	"github.com/podsift/podsift/app/cfg"
	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/feed"
	"github.com/podsift/podsift/app/ingest"
	"github.com/podsift/podsift/app/subscriptions"
	"github.com/podsift/podsift/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting podsift server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	recentWindow := time.Duration(appCfg.RecentWindowDays) * 24 * time.Hour

	feedStore := database.NewFeedRepository(db)
	episodeStore := database.NewEpisodeRepository(db, recentWindow)

	httpClient := &http.Client{}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.FetchMirrors)
	parser := feed.NewParser(fetcher, recentWindow)
	validator := feed.NewValidator(parser)

	planner := ingest.NewPlanner(episodeStore, appCfg.InsertBatchSize)
	refresher := ingest.NewRefresher(parser, feedStore, episodeStore, planner,
		time.Duration(appCfg.RefreshInterval)*time.Second)

	if appCfg.SubscriptionsFile != "" {
		seedSubscriptions(feedStore, appCfg.SubscriptionsFile)
	}

	scheduler := tasks.NewScheduler(feedStore, refresher)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	handler := api.NewHandler(feedStore, episodeStore, validator, refresher, scheduler)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// seedSubscriptions registers feed URLs from the optional seed file.
// Already-known URLs are left untouched; the scheduler picks the new ones
// up on its first tick.
func seedSubscriptions(feeds database.FeedStore, path string) {
	urls, err := subscriptions.Load(path)
	if err != nil {
		slog.Warn("Failed to load subscriptions file", "path", path, "error", err)
		return
	}

	ctx := context.Background()
	added := 0
	for _, url := range urls {
		existing, err := feeds.GetFeedByURL(ctx, url)
		if err != nil {
			slog.Warn("Failed to check subscription", "url", url, "error", err)
			continue
		}
		if existing != nil {
			continue
		}
		if _, err := feeds.AddFeed(ctx, url); err != nil {
			slog.Warn("Failed to seed subscription", "url", url, "error", err)
			continue
		}
		added++
	}

	slog.Info("Subscriptions seeded", "file", path, "total", len(urls), "added", added)
}
