package domain

// FilterCriteria holds the catalog search and facet selections.
// An empty string means the criterion is unset.
type FilterCriteria struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Location string `json:"location"`
	Batch    string `json:"batch"`
	Category string `json:"category"`
}

// IsZero reports whether no criterion is set
func (f FilterCriteria) IsZero() bool {
	return f == FilterCriteria{}
}

// Facets lists the selectable values for each facet
type Facets struct {
	Statuses   []string `json:"statuses"`
	Locations  []string `json:"locations"`
	Batches    []string `json:"batches"`
	Categories []string `json:"categories"`
}

// PageView is one page of a filtered catalog result
type PageView struct {
	Items      []Company `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	HasPrev    bool      `json:"has_prev"`
	HasNext    bool      `json:"has_next"`
}

// BrowseState is the catalog browsing state owned by a chat session
type BrowseState struct {
	Criteria FilterCriteria `json:"criteria"`
	Page     int            `json:"page"`
}
