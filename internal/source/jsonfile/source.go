package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// Source reads a catalog file holding a JSON array of companies
type Source struct {
	path string
}

// NewSource creates a new JSON file source
func NewSource() source.Source {
	return &Source{}
}

// Type returns the source type identifier
func (s *Source) Type() string {
	return "json"
}

// Open checks that the catalog file exists
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if cfg.Location == "" {
		return fmt.Errorf("catalog file path is required")
	}
	if _, err := os.Stat(cfg.Location); err != nil {
		return fmt.Errorf("failed to stat catalog file: %w", err)
	}
	s.path = cfg.Location
	return nil
}

// Load decodes the whole file
func (s *Source) Load(ctx context.Context) ([]domain.Company, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Decode(data)
}

// Close is a no-op
func (s *Source) Close() error {
	return nil
}

// Decode parses a JSON array of companies
func Decode(data []byte) ([]domain.Company, error) {
	var companies []domain.Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return companies, nil
}
