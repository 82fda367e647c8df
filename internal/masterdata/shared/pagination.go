package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/medbill/medbill/internal/platform/httpx"
	common "github.com/medbill/medbill/internal/shared"
)

// ListFilters represents standard master data list filters
type ListFilters struct {
	common.ListFilters
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	CompanyID   *int64
	Category    string
	ProductType string
}

// FiltersFromRequest reads list filters from the query string.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{
		ListFilters: httpx.ListFilters(r),
		SortBy:      q.Get("sort"),
		SortDir:     strings.ToLower(q.Get("dir")),
		Category:    strings.TrimSpace(q.Get("category")),
		ProductType: strings.TrimSpace(q.Get("productType")),
	}
	if raw := q.Get("isActive"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.IsActive = &v
		}
	}
	if raw := q.Get("companyId"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			f.CompanyID = &v
		}
	}
	return f
}

// OrderBy renders an ORDER BY clause restricted to allowed columns. Unknown sort
// keys fall back to newest first.
func (f ListFilters) OrderBy(allowed map[string]string) string {
	col, ok := allowed[f.SortBy]
	if !ok {
		return " ORDER BY created_at DESC, id DESC"
	}
	dir := "ASC"
	if f.SortDir == SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id DESC"
}
