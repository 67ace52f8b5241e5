package catalog

import (
	"strings"

	"github.com/Rrens/quackbot/internal/domain"
)

// Engine applies FilterCriteria to catalog records.
//
// Search and location match case-insensitively by substring. Status, batch and
// category match exactly unless the engine was built with foldFacets, in which
// case they compare with strings.EqualFold.
type Engine struct {
	foldFacets bool
}

// NewEngine creates a filter engine
func NewEngine(foldFacets bool) *Engine {
	return &Engine{foldFacets: foldFacets}
}

var defaultEngine = NewEngine(false)

// Filter applies criteria with exact facet matching
func Filter(companies []domain.Company, criteria domain.FilterCriteria) []domain.Company {
	return defaultEngine.Apply(companies, criteria)
}

// Apply returns the records matching every criterion, in source order.
// The result is never nil.
func (e *Engine) Apply(companies []domain.Company, criteria domain.FilterCriteria) []domain.Company {
	out := make([]domain.Company, 0)
	if criteria.IsZero() {
		return append(out, companies...)
	}

	criteria.Search = strings.ToLower(criteria.Search)
	criteria.Location = strings.ToLower(criteria.Location)

	for i := range companies {
		if e.match(&companies[i], criteria) {
			out = append(out, companies[i])
		}
	}
	return out
}

// match expects Search and Location already lower-cased
func (e *Engine) match(c *domain.Company, f domain.FilterCriteria) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.CompanyName), f.Search) {
		return false
	}
	if f.Status != "" && !e.facetEqual(c.Status, f.Status) {
		return false
	}
	if f.Location != "" {
		if c.Location == nil || !strings.Contains(strings.ToLower(*c.Location), f.Location) {
			return false
		}
	}
	if f.Batch != "" && !e.facetEqual(c.Batch, f.Batch) {
		return false
	}
	if f.Category != "" && !e.hasTag(c, f.Category) {
		return false
	}
	return true
}

func (e *Engine) facetEqual(field *string, want string) bool {
	if field == nil {
		return false
	}
	if e.foldFacets {
		return strings.EqualFold(*field, want)
	}
	return *field == want
}

func (e *Engine) hasTag(c *domain.Company, tag string) bool {
	if !e.foldFacets {
		return c.HasTag(tag)
	}
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
