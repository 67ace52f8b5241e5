package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// Source reads the catalog from a MySQL table
type Source struct {
	db    *sql.DB
	table string
}

// NewSource creates a new MySQL source
func NewSource() source.Source {
	return &Source{}
}

// Type returns the source type identifier
func (s *Source) Type() string {
	return "mysql"
}

// Open connects using a go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/quackbot
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if err := source.ValidateTable(cfg.Table); err != nil {
		return err
	}

	db, err := sql.Open("mysql", cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping: %w", err)
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
