package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rrens/quackbot/internal/api/handler"
	customMiddleware "github.com/Rrens/quackbot/internal/api/middleware"
	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/chat"
	"github.com/Rrens/quackbot/internal/config"
)

// Deps are the collaborators the HTTP API is built on
type Deps struct {
	Catalog    *catalog.Service
	Controller *chat.Controller
	// Limiter throttles message posts per session
	Limiter customMiddleware.Limiter
	// Ready lists the dependencies the readiness probe pings
	Ready map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	sessionHandler := handler.NewSessionHandler(deps.Controller)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(deps.Limiter, "sessionID")

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Catalog.Store(), deps.Ready))

		// Catalog routes
		r.Get("/facets", catalogHandler.Facets)
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/{name}", catalogHandler.Get)
		})

		// Session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)

				r.Post("/select", sessionHandler.Select)
				r.Post("/reset", sessionHandler.Reset)
				r.Put("/phase", sessionHandler.SetPhase)
				r.Post("/phase/toggle", sessionHandler.TogglePhase)

				r.Get("/messages", sessionHandler.Messages)
				r.With(rateLimitMiddleware.Limit).Post("/messages", sessionHandler.Send)

				r.Get("/browse", sessionHandler.View)
				r.Post("/browse", sessionHandler.Browse)
			})
		})
	})

	return r
}
