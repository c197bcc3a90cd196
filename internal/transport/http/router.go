package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/naka-gawa/merged-prs/internal/transport/http/handler"
)

// RouterConfig holds the handlers served by the dashboard.
type RouterConfig struct {
	DashboardHandler *handler.DashboardHandler
	HealthHandler    *handler.HealthHandler
}

// NewRouter creates the dashboard router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/health", cfg.HealthHandler.Check)

	r.Get("/", cfg.DashboardHandler.Form)
	r.Post("/count", cfg.DashboardHandler.Count)
	r.Get("/api/count", cfg.DashboardHandler.CountJSON)

	return r
}
