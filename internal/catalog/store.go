package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rrens/quackbot/internal/domain"
)

// Store holds the company catalog loaded at startup.
// It is never mutated after NewStore returns, so it is safe for concurrent readers.
type Store struct {
	companies []domain.Company
	byName    map[string][]int
}

// NewStore validates and indexes the loaded records. Record order is preserved.
func NewStore(companies []domain.Company) (*Store, error) {
	s := &Store{
		companies: slices.Clone(companies),
		byName:    make(map[string][]int, len(companies)),
	}

	for i := range s.companies {
		name := s.companies[i].CompanyName
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("company at index %d has no company_name", i)
		}
		s.byName[name] = append(s.byName[name], i)
	}

	return s, nil
}

// All returns the catalog in source order. Callers must not modify it.
func (s *Store) All() []domain.Company {
	return s.companies
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.companies)
}

// Lookup returns every record with exactly the given name
func (s *Store) Lookup(name string) []domain.Company {
	idx := s.byName[name]
	out := make([]domain.Company, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.companies[i])
	}
	return out
}

// Contains reports whether at least one record has the given name
func (s *Store) Contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}
