package shared

import (
	"math"
	"strings"
)

const (
	// DefaultPage is used when the page query parameter is absent or invalid.
	DefaultPage = 1
	// DefaultLimit is used when the limit query parameter is absent or invalid.
	DefaultLimit = 10
	// MaxLimit caps page sizes.
	MaxLimit = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ListFilters holds the common query parameters of list endpoints.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// Normalize applies defaults and bounds.
func (f ListFilters) Normalize() ListFilters {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Offset returns the row offset of the current page.
func (f ListFilters) Offset() int {
	f = f.Normalize()
	return (f.Page - 1) * f.Limit
}
