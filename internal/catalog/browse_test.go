package catalog_test

import (
	"fmt"
	"testing"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, n int) *catalog.Service {
	t.Helper()
	companies := make([]domain.Company, 0, n)
	for i := 0; i < n; i++ {
		status := "Active"
		if i%3 == 0 {
			status = "Inactive"
		}
		companies = append(companies, company(fmt.Sprintf("Company %02d", i), status, "Seattle, WA"))
	}
	store, err := catalog.NewStore(companies)
	require.NoError(t, err)
	return catalog.NewService(store, nil, 20, domain.Facets{})
}

func TestReduce_Navigation(t *testing.T) {
	state := catalog.InitialBrowseState()

	state, err := catalog.Reduce(state, catalog.Action{Type: catalog.ActionPrevPage}, 45, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Page, "prev on first page is a no-op")

	for i := 0; i < 5; i++ {
		state, err = catalog.Reduce(state, catalog.Action{Type: catalog.ActionNextPage}, 45, 20)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, state.Page, "next stops at the last page")

	state, err = catalog.Reduce(state, catalog.Action{Type: catalog.ActionGoToPage, Value: "-4"}, 45, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Page)

	_, err = catalog.Reduce(state, catalog.Action{Type: catalog.ActionGoToPage, Value: "two"}, 45, 20)
	assert.ErrorIs(t, err, catalog.ErrInvalidPage)

	_, err = catalog.Reduce(state, catalog.Action{Type: "sideways"}, 45, 20)
	assert.ErrorIs(t, err, catalog.ErrUnknownAction)
}

func TestReduce_FilterChangeResetsPage(t *testing.T) {
	state := domain.BrowseState{Page: 3}

	state, err := catalog.Reduce(state, catalog.Action{Type: catalog.ActionSetStatus, Value: "Active"}, 45, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "Active", state.Criteria.Status)

	state.Page = 2
	state, err = catalog.Reduce(state, catalog.Action{Type: catalog.ActionSetStatus, Value: "Active"}, 45, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Page, "setting the same value is not a change")

	state, err = catalog.Reduce(state, catalog.Action{Type: catalog.ActionResetFilters}, 45, 20)
	require.NoError(t, err)
	assert.True(t, state.Criteria.IsZero())
	assert.Equal(t, 1, state.Page)
}

func TestService_StalePageWithoutReducer(t *testing.T) {
	svc := newService(t, 45)

	view := svc.Search(domain.FilterCriteria{}, 3, 0)
	assert.Len(t, view.Items, 5)

	// 15 inactive companies fit on one page; page 3 of the narrower set is empty
	view = svc.Search(domain.FilterCriteria{Status: "Inactive"}, 3, 0)
	assert.Empty(t, view.Items)
	assert.Equal(t, 15, view.Total)
	assert.Equal(t, 1, view.TotalPages)
}

func TestService_Browse(t *testing.T) {
	svc := newService(t, 45)
	state := catalog.InitialBrowseState()

	state, view, err := svc.Browse(state, catalog.Action{Type: catalog.ActionNextPage})
	require.NoError(t, err)
	assert.Equal(t, 2, state.Page)
	assert.Equal(t, "Company 20", view.Items[0].CompanyName)

	state, view, err = svc.Browse(state, catalog.Action{Type: catalog.ActionSetStatus, Value: "Inactive"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.Page)
	assert.Len(t, view.Items, 15)
	assert.False(t, view.HasNext)

	state, _, err = svc.Browse(state, catalog.Action{Type: catalog.ActionNextPage})
	require.NoError(t, err)
	assert.Equal(t, 1, state.Page, "next is disabled on the last page")

	before := state
	state, _, err = svc.Browse(state, catalog.Action{Type: "bogus"})
	assert.Error(t, err)
	assert.Equal(t, before, state)
}
