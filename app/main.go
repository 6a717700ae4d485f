package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feedstream/app/api"
	"github.com/lysyi3m/feedstream/app/cfg"
	"github.com/lysyi3m/feedstream/app/config"
	"github.com/lysyi3m/feedstream/app/database"
	"github.com/lysyi3m/feedstream/app/feed"
	"github.com/lysyi3m/feedstream/app/tasks"
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
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting FeedStream server", "version", appCfg.Version)

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	itemRepo := database.NewItemRepository(db)

	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent)
	normalizer := feed.NewNormalizer(fetcher)
	service := feed.NewService(itemRepo, normalizer, appCfg.PageSize)

	if appCfg.FeedsFile != "" {
		seedFeeds(service, appCfg.FeedsFile)
	}

	scheduler := tasks.NewScheduler(itemRepo, normalizer,
		time.Duration(appCfg.PollInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.PollInterval)

	handler := api.NewHandler(service, itemRepo)
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
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// seedFeeds ingests the URLs listed in the seed feeds file so the poller
// tracks them from the first cycle. Failures are logged and skipped; a bad
// seed feed must not prevent startup.
func seedFeeds(service *feed.Service, feedsFile string) {
	urls, err := config.LoadSeeds(feedsFile)
	if err != nil {
		slog.Error("Failed to load seed feeds file", "path", feedsFile, "error", err)
		return
	}

	slog.Info("Ingesting seed feeds", "path", feedsFile, "count", len(urls))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, url := range urls {
		if err := service.EnsureFeeds(ctx, []string{url}); err != nil {
			slog.Warn("Failed to ingest seed feed", "feed_url", url, "error", err)
		}
	}
}
