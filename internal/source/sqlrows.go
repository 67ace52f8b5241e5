package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rrens/quackbot/internal/domain"
)

// LoadSQL reads the catalog through database/sql, shared by the mysql and sqlite sources
func LoadSQL(ctx context.Context, db *sql.DB, table string) ([]domain.Company, error) {
	if db == nil {
		return nil, fmt.Errorf("not connected")
	}

	rows, err := db.QueryContext(ctx, SelectQuery(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var row Row
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
