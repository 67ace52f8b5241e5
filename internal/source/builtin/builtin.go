// Package builtin wires every catalog source shipped with quackbot into one router.
package builtin

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/config"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
	"github.com/Rrens/quackbot/internal/source/jsonfile"
	"github.com/Rrens/quackbot/internal/source/mongo"
	"github.com/Rrens/quackbot/internal/source/mysql"
	"github.com/Rrens/quackbot/internal/source/postgres"
	"github.com/Rrens/quackbot/internal/source/sqlite"
)

// NewRouter returns a router with the json, postgres, mysql, sqlite and mongo sources registered
func NewRouter() *source.Router {
	r := source.NewRouter()
	r.Register("json", jsonfile.NewSource)
	r.Register("postgres", postgres.NewSource)
	r.Register("mysql", mysql.NewSource)
	r.Register("sqlite", sqlite.NewSource)
	r.Register("mongo", mongo.NewSource)
	return r
}

// LoadCatalog reads the configured catalog source and builds the catalog service over it
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Service, error) {
	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	router := NewRouter()
	if !slices.Contains(router.Supported(), cfg.Source) {
		return nil, fmt.Errorf("unsupported catalog source %q, expected one of: %s",
			cfg.Source, strings.Join(router.Supported(), ", "))
	}

	companies, err := router.Load(ctx, cfg.Source, source.Config{
		Location: cfg.Path,
		Table:    cfg.Table,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store, err := catalog.NewStore(companies)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	facets := domain.Facets{
		Statuses:   cfg.Facets.Statuses,
		Locations:  cfg.Facets.Locations,
		Batches:    cfg.Facets.Batches,
		Categories: cfg.Facets.Categories,
	}
	return catalog.NewService(store, catalog.NewEngine(cfg.CaseInsensitiveFacets), cfg.PageSize, facets), nil
}
