package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openfloor/rollcall/internal/matrix"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	// Database is optional; when set the health endpoint pings it.
	Database interface{ Health(context.Context) error }
	Store    matrix.Store
	// CORSOrigins restricts cross-origin access; empty means allow all
	// (this is a local read surface, not a public feed).
	CORSOrigins []string
}

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health endpoint
	if cfg.Database != nil {
		r.Get("/api/health", NewHealthHandler(cfg.Database))
	} else {
		r.Get("/api/health", HealthHandler)
	}

	// Matrix API
	h := NewMatrixHandler(cfg.Store)
	r.Route("/api", func(r chi.Router) {
		r.Get("/matrix", h.Matrix)
		r.Get("/matrix/export", h.Export)
		r.Get("/bills", h.Bills)
		r.Get("/bills/{id}/tally", h.BillTally)
		r.Get("/legislators", h.Legislators)
		r.Get("/legislators/{id}", h.GetLegislator)
		r.Get("/stats", h.Stats)
		r.Post("/scores", h.Scores)
	})

	return r
}
