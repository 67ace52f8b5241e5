package catalog

import "github.com/Rrens/quackbot/internal/domain"

// DefaultPageSize is the number of companies shown per page
const DefaultPageSize = 20

// TotalPages returns ceil(n / pageSize), or 0 for an empty result
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of items.
// Pages past the end yield an empty slice rather than an error.
func Paginate(items []domain.Company, page, pageSize int) domain.PageView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	n := len(items)
	total := TotalPages(n, pageSize)

	start, end := n, n
	if page <= total {
		start = (page - 1) * pageSize
		end = min(page*pageSize, n)
	}

	return domain.PageView{
		Items:      append(make([]domain.Company, 0, end-start), items[start:end]...),
		Page:       page,
		PageSize:   pageSize,
		Total:      n,
		TotalPages: total,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
}
