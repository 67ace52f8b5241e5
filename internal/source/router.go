package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/quackbot/internal/domain"
)

// Router maps source types to their factories
type Router struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRouter creates a new source router
func NewRouter() *Router {
	return &Router{
		factories: make(map[string]Factory),
	}
}

// Register registers a factory for a source type
func (r *Router) Register(sourceType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[sourceType] = factory
}

// Supported returns the registered source types, sorted
func (r *Router) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for sourceType := range r.factories {
		types = append(types, sourceType)
	}
	sort.Strings(types)
	return types
}

// Load opens a source of the given type, reads the whole catalog and closes it again
func (r *Router) Load(ctx context.Context, sourceType string, cfg Config) ([]domain.Company, error) {
	r.mu.RLock()
	factory, ok := r.factories[sourceType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported catalog source: %s", sourceType)
	}

	src := factory()
	if err := src.Open(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", sourceType, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Str("source", sourceType).Msg("Failed to close catalog source")
		}
	}()

	companies, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", sourceType, err)
	}

	log.Info().Str("source", sourceType).Int("companies", len(companies)).Msg("Catalog loaded")
	return companies, nil
}
