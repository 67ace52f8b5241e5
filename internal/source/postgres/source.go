package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// Source reads the catalog from a PostgreSQL table
type Source struct {
	pool  *pgxpool.Pool
	table string
}

// NewSource creates a new PostgreSQL source
func NewSource() source.Source {
	return &Source{}
}

// Type returns the source type identifier
func (s *Source) Type() string {
	return "postgres"
}

// Open connects using a postgres:// DSN
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if err := source.ValidateTable(cfg.Table); err != nil {
		return err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping: %w", err)
	}

	s.pool = pool
	s.table = cfg.Table
	return nil
}

// Load reads all rows ordered by position
func (s *Source) Load(ctx context.Context) ([]domain.Company, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("not connected")
	}

	rows, err := s.pool.Query(ctx, source.SelectQuery(s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var row source.Row
		if err := rows.Scan(row.Dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		company, err := row.Company()
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}

// Close closes the pool
func (s *Source) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}
