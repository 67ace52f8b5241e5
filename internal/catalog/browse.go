package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Rrens/quackbot/internal/domain"
)

// ActionType names a browse state transition
type ActionType string

const (
	ActionSetSearch    ActionType = "set_search"
	ActionSetStatus    ActionType = "set_status"
	ActionSetLocation  ActionType = "set_location"
	ActionSetBatch     ActionType = "set_batch"
	ActionSetCategory  ActionType = "set_category"
	ActionResetFilters ActionType = "reset_filters"
	ActionNextPage     ActionType = "next_page"
	ActionPrevPage     ActionType = "prev_page"
	ActionGoToPage     ActionType = "go_to_page"
)

var (
	// ErrUnknownAction is returned for an unrecognised browse action
	ErrUnknownAction = errors.New("unknown browse action")
	// ErrInvalidPage is returned when go_to_page carries a non-numeric value
	ErrInvalidPage = errors.New("invalid page")
)

// Action is a single browse event
type Action struct {
	Type  ActionType `json:"action" validate:"required"`
	Value string     `json:"value"`
}

// InitialBrowseState is the state of a fresh session: no filters, first page
func InitialBrowseState() domain.BrowseState {
	return domain.BrowseState{Page: 1}
}

// Reduce applies an action to a browse state. total is the size of the result
// set for the state's current criteria; it only matters for next_page.
//
// Any filter change moves the view back to page 1 so a narrower result set
// never leaves it stranded on an empty page.
func Reduce(state domain.BrowseState, action Action, total, pageSize int) (domain.BrowseState, error) {
	if state.Page < 1 {
		state.Page = 1
	}

	switch action.Type {
	case ActionSetSearch:
		return withCriteria(state, func(f *domain.FilterCriteria) { f.Search = action.Value }), nil
	case ActionSetStatus:
		return withCriteria(state, func(f *domain.FilterCriteria) { f.Status = action.Value }), nil
	case ActionSetLocation:
		return withCriteria(state, func(f *domain.FilterCriteria) { f.Location = action.Value }), nil
	case ActionSetBatch:
		return withCriteria(state, func(f *domain.FilterCriteria) { f.Batch = action.Value }), nil
	case ActionSetCategory:
		return withCriteria(state, func(f *domain.FilterCriteria) { f.Category = action.Value }), nil
	case ActionResetFilters:
		return withCriteria(state, func(f *domain.FilterCriteria) { *f = domain.FilterCriteria{} }), nil
	case ActionPrevPage:
		if state.Page > 1 {
			state.Page--
		}
		return state, nil
	case ActionNextPage:
		if state.Page < TotalPages(total, pageSize) {
			state.Page++
		}
		return state, nil
	case ActionGoToPage:
		page, err := strconv.Atoi(action.Value)
		if err != nil {
			return state, fmt.Errorf("%w: %q", ErrInvalidPage, action.Value)
		}
		state.Page = max(page, 1)
		return state, nil
	}

	return state, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
}

func withCriteria(state domain.BrowseState, mutate func(*domain.FilterCriteria)) domain.BrowseState {
	before := state.Criteria
	mutate(&state.Criteria)
	if state.Criteria != before {
		state.Page = 1
	}
	return state
}
