package catalog

import (
	"sort"

	"github.com/Rrens/quackbot/internal/domain"
)

// DeriveFacets collects the distinct facet values present in the catalog, sorted
func DeriveFacets(companies []domain.Company) domain.Facets {
	statuses := map[string]struct{}{}
	locations := map[string]struct{}{}
	batches := map[string]struct{}{}
	categories := map[string]struct{}{}

	for i := range companies {
		c := &companies[i]
		addNonEmpty(statuses, c.Status)
		addNonEmpty(locations, c.Location)
		addNonEmpty(batches, c.Batch)
		for _, t := range c.Tags {
			if t != "" {
				categories[t] = struct{}{}
			}
		}
	}

	return domain.Facets{
		Statuses:   sortedKeys(statuses),
		Locations:  sortedKeys(locations),
		Batches:    sortedKeys(batches),
		Categories: sortedKeys(categories),
	}
}

// MergeFacets replaces derived lists with configured ones where configured lists are non-empty
func MergeFacets(derived, configured domain.Facets) domain.Facets {
	out := derived
	if len(configured.Statuses) > 0 {
		out.Statuses = configured.Statuses
	}
	if len(configured.Locations) > 0 {
		out.Locations = configured.Locations
	}
	if len(configured.Batches) > 0 {
		out.Batches = configured.Batches
	}
	if len(configured.Categories) > 0 {
		out.Categories = configured.Categories
	}
	return out
}

func addNonEmpty(set map[string]struct{}, v *string) {
	if v != nil && *v != "" {
		set[*v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
