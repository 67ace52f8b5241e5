package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// CompanyRepository writes the catalog table read by the postgres catalog source
type CompanyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// InsertQuery returns the positional insert statement for the companies table
func InsertQuery() string {
	n := len(strings.Split(source.Columns, ","))
	placeholders := make([]string, 0, n+1)
	for i := 1; i <= n+1; i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
	}
	return fmt.Sprintf(
		"INSERT INTO companies (position, %s) VALUES (%s)",
		source.Columns, strings.Join(placeholders, ", "),
	)
}

// ReplaceAll swaps the whole catalog in one transaction, keeping the slice order as position
func (r *CompanyRepository) ReplaceAll(ctx context.Context, companies []domain.Company) error {
	query := InsertQuery()
	batch := &pgx.Batch{}
	for i, company := range companies {
		row, err := source.NewRow(company)
		if err != nil {
			return fmt.Errorf("failed to encode company at index %d: %w", i, err)
		}
		batch.Queue(query, append([]any{i + 1}, row.Args()...)...)
	}

	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM companies"); err != nil {
			return fmt.Errorf("failed to clear companies: %w", err)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert companies: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored companies
func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}
