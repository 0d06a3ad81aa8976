package server

import (
	"context"

	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"linkchecker/internal/crawl"
	"linkchecker/internal/handlers"
	"linkchecker/internal/handlers/api"
	"linkchecker/internal/metrics"
	"linkchecker/internal/middleware"
)

// RegisterRoutes registers all application routes. backend gates readiness.
func (s *Server) RegisterRoutes(ctx context.Context, workspaces *crawl.Workspaces, backend handlers.Pinger) error {
	visitors := middleware.NewVisitorMiddleware(s.Cfg)

	crawlHandler := handlers.NewCrawlHandler(workspaces, s.Cfg, s.Log)
	probeHandler := handlers.NewProbeHandler(backend)
	apiCrawlHandler := api.NewCrawlHandler(workspaces, s.Log)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Auth routes - optional, history is kept per browser session without them
	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, s.Log)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		s.Log.Info("OIDC authentication is disabled, crawl history is kept per browser session")
	}
	s.App.Get("/login", handlers.LoginPage(s.Cfg))

	// Frontend routes
	s.App.Get("/", visitors.RequireAuth, visitors.Identify, crawlHandler.Index)
	s.App.Post("/crawls", visitors.RequireAuth, visitors.Identify, crawlHandler.Submit)
	s.App.Get("/results", visitors.RequireAuth, visitors.Identify, crawlHandler.Results)
	s.App.Get("/crawls/:id/export", visitors.RequireAuth, visitors.Identify, crawlHandler.Export)

	// JSON API
	v1 := s.App.Group("/api/v1", visitors.RequireAuth, visitors.Identify)
	v1.Get("/crawls", apiCrawlHandler.List)
	v1.Post("/crawls", apiCrawlHandler.Create)
	v1.Get("/crawls/:id", apiCrawlHandler.Get)
	v1.Post("/crawls/:id/select", apiCrawlHandler.Select)
	v1.Get("/state", apiCrawlHandler.State)

	return nil
}
