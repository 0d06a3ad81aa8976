package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"linkchecker/internal/config"
	"linkchecker/internal/crawl"
	"linkchecker/internal/db"
	"linkchecker/internal/email"
	"linkchecker/internal/logger"
	"linkchecker/internal/metrics"
	"linkchecker/internal/server"
	"linkchecker/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	backend, sessionStorage, err := openBackend(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			zl.Warn("failed to close storage backend", zap.Error(err))
		}
	}()

	fixtures, err := config.LoadFixtures(cfg.CrawlFixturesFile)
	if err != nil {
		return fmt.Errorf("failed to load crawl fixtures: %w", err)
	}

	notifier := email.NewNotifier(cfg, zl)
	svc := crawl.NewStubService(cfg.CrawlDelay, fixtures)
	workspaces := crawl.NewWorkspaces(svc, backend, cfg.HistoryLimit, zl, notifier,
		crawl.WithMaxVisitors(cfg.MaxVisitors),
		crawl.WithIdleTimeout(cfg.VisitorIdleTimeout),
	)

	metrics.Init(workspaces)

	srv := server.New(cfg, zl, sessionStorage)
	if err := srv.RegisterRoutes(ctx, workspaces, backend); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	zl.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zl.Info("server exited")
	return nil
}

// openBackend opens the history storage selected by STORAGE_BACKEND. The
// returned fiber.Storage is shared with sessions and rate limiting, and is
// nil when those should stay in memory.
func openBackend(ctx context.Context, cfg *config.Config, zl *zap.Logger) (storage.Backend, fiber.Storage, error) {
	switch cfg.StorageBackend {
	case "", "memory":
		zl.Warn("using in-memory crawl history, it is lost on restart")
		return storage.NewMemory(), nil, nil

	case "redis":
		r, err := storage.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		zl.Info("using redis crawl history")
		return r, r.Storage(), nil

	case "postgres":
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL, zl); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		zl.Info("using postgres crawl history")
		return storage.NewPostgres(database), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
