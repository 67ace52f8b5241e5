package source

import (
	"context"

	"github.com/Rrens/quackbot/internal/domain"
)

// Config locates a catalog
type Config struct {
	// Location is a file path for json, a DSN for sql sources and a URI for mongo
	Location string
	// Table is the SQL table or mongo collection holding the companies
	Table string
	// Database names the mongo database
	Database string
}

// Source loads the company catalog from one kind of backend
type Source interface {
	// Type returns the source type identifier (json, postgres, mysql, sqlite, mongo)
	Type() string

	// Open connects to the backend
	Open(ctx context.Context, cfg Config) error

	// Load returns every company in catalog order
	Load(ctx context.Context) ([]domain.Company, error)

	// Close releases the connection
	Close() error
}

// Factory creates a new source instance
type Factory func() Source
