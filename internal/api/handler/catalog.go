package handler

import (
	"net/http"
	"strconv"

	"github.com/Rrens/quackbot/internal/api/request"
	"github.com/Rrens/quackbot/internal/api/response"
	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
)

// maxPageSize bounds page_size on the stateless listing
const maxPageSize = 100

// CatalogHandler handles stateless catalog endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// List filters and paginates the catalog from query parameters.
// The page is taken as given; a page past the end is empty.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p := q.Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			response.BadRequest(w, "page must be a positive integer")
			return
		}
		page = v
	}

	pageSize := 0
	if ps := q.Get("page_size"); ps != "" {
		v, err := strconv.Atoi(ps)
		if err != nil || v < 1 || v > maxPageSize {
			response.BadRequest(w, "page_size must be between 1 and "+strconv.Itoa(maxPageSize))
			return
		}
		pageSize = v
	}

	criteria := domain.FilterCriteria{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Location: q.Get("location"),
		Batch:    q.Get("batch"),
		Category: q.Get("category"),
	}

	response.OK(w, h.catalog.Search(criteria, page, pageSize))
}

// Get returns every company with exactly the given name
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := request.PathParam(r, "name")

	companies := h.catalog.Store().Lookup(name)
	if len(companies) == 0 {
		response.NotFound(w, "company not found")
		return
	}

	response.OK(w, companies)
}

// Facets returns the option lists for the status, location, batch and category filters
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.catalog.Facets())
}
