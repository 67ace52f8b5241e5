package catalog

import (
	"github.com/Rrens/quackbot/internal/domain"
)

// Service exposes the filter engine and pager over a loaded Store
type Service struct {
	store    *Store
	engine   *Engine
	pageSize int
	facets   domain.Facets
}

// NewService creates a catalog service. Configured facet lists override the
// ones derived from the catalog.
func NewService(store *Store, engine *Engine, pageSize int, configured domain.Facets) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if engine == nil {
		engine = defaultEngine
	}
	return &Service{
		store:    store,
		engine:   engine,
		pageSize: pageSize,
		facets:   MergeFacets(DeriveFacets(store.All()), configured),
	}
}

// Store returns the underlying catalog
func (s *Service) Store() *Store {
	return s.store
}

// PageSize returns the configured page size
func (s *Service) PageSize() int {
	return s.pageSize
}

// Facets returns the selectable facet values
func (s *Service) Facets() domain.Facets {
	return s.facets
}

// Filter returns every record matching the criteria
func (s *Service) Filter(criteria domain.FilterCriteria) []domain.Company {
	return s.engine.Apply(s.store.All(), criteria)
}

// Search filters the catalog and returns the requested page.
// A pageSize of 0 selects the configured size.
func (s *Service) Search(criteria domain.FilterCriteria, page, pageSize int) domain.PageView {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	return Paginate(s.Filter(criteria), page, pageSize)
}

// View renders a browse state
func (s *Service) View(state domain.BrowseState) domain.PageView {
	return s.Search(state.Criteria, state.Page, s.pageSize)
}

// Browse applies an action to a browse state and renders the result
func (s *Service) Browse(state domain.BrowseState, action Action) (domain.BrowseState, domain.PageView, error) {
	total := len(s.Filter(state.Criteria))
	next, err := Reduce(state, action, total, s.pageSize)
	if err != nil {
		return state, s.View(state), err
	}
	return next, s.View(next), nil
}
