package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// Source reads the catalog from a SQLite database file
type Source struct {
	db    *sql.DB
	table string
}

// NewSource creates a new SQLite source
func NewSource() source.Source {
	return &Source{}
}

// Type returns the source type identifier
func (s *Source) Type() string {
	return "sqlite"
}

// Open opens the database file read-only
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if cfg.Location == "" {
		return fmt.Errorf("database file path is required")
	}
	if err := source.ValidateTable(cfg.Table); err != nil {
		return err
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", cfg.Location)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	s.table = cfg.Table
	return nil
}

// Load reads all rows ordered by position
func (s *Source) Load(ctx context.Context) ([]domain.Company, error) {
	return source.LoadSQL(ctx, s.db, s.table)
}

// Close closes the connection
func (s *Source) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
