package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"animehub/database"
	"animehub/internal/api/repository"
	"animehub/internal/config"
	"animehub/internal/ingestion/jikan"
)

// Bulk importer: fills an empty catalog from the Jikan popularity listing.
// Whole pages fan out over the worker pool; the shared client rate limiter
// keeps the upstream request rate bounded regardless of worker count.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	animeRepo := repository.NewAnimeRepo(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	client := jikan.NewClient(cfg.JikanAPIURL, logger)
	syncService := jikan.NewSyncService(client, animeRepo, watchlistRepo, notifRepo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received, stopping import")
		cancel()
	}()

	logger.Info("starting bulk import", "pages", cfg.SyncInitialPages, "workers", cfg.SyncWorkerCount)

	pool := jikan.NewWorkerPool(cfg.SyncWorkerCount, logger)
	pool.Start()

	var totalCreated, totalUpdated, totalErrors atomic.Int64

	for page := 1; page <= cfg.SyncInitialPages; page++ {
		select {
		case <-ctx.Done():
			pool.Shutdown()
			logger.Info("import cancelled")
			return
		default:
		}

		p := page
		pool.Submit(func(taskCtx context.Context) error {
			result, err := syncService.SyncPopularPage(taskCtx, p)
			if err != nil {
				logger.Error("page import failed", "page", p, "error", err)
				totalErrors.Add(1)
				return err
			}
			totalCreated.Add(int64(result.Created))
			totalUpdated.Add(int64(result.Updated))
			totalErrors.Add(int64(len(result.Errors)))
			logger.Info("page imported", "page", p, "created", result.Created, "updated", result.Updated)
			return nil
		})
	}

	pool.Wait()
	logger.Info("bulk import finished",
		"created", totalCreated.Load(), "updated", totalUpdated.Load(), "errors", totalErrors.Load())
}
