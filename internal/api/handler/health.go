package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/quackbot/internal/api/response"
	"github.com/Rrens/quackbot/internal/catalog"
)

// Pinger is a dependency that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports ready once the catalog is loaded and every dependency answers
func ReadyCheck(store *catalog.Store, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			response.Error(w, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}

		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, name+" not ready")
				return
			}
		}

		response.OK(w, map[string]any{
			"status":    "ready",
			"companies": store.Len(),
		})
	}
}
