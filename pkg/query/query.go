// Package query defines the list request descriptor shared by the admin grid
// screens and its synchronization with URL query parameters.
package query

import (
	"errors"
	"maps"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by the admin list endpoints.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "search"
)

// DefaultPageSize is the page size a fresh screen starts with.
const DefaultPageSize = 10

// PageSizes are the page sizes the list endpoints accept.
var PageSizes = []int{10, 25, 50, 100}

var (
	// ErrInvalidPageSize is returned when a page size is not one of PageSizes.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidPage is returned when a page number is below 1.
	ErrInvalidPage = errors.New("invalid page number")
)

// ListQuery describes one list request: which page, how big, and which
// search text and categorical filters to apply.
type ListQuery struct {
	// Page is the 1-based page number.
	Page int `json:"page"`

	// PageSize is the number of rows per page (one of PageSizes).
	PageSize int `json:"page_size"`

	// Search is free text; empty means no search filter.
	Search string `json:"search,omitempty"`

	// Filters maps a filter key to its selected value. Empty values are not applied.
	Filters map[string]string `json:"filters,omitempty"`
}

// New returns the query a screen starts with: page 1, default page size, no filters.
func New() ListQuery {
	return ListQuery{
		Page:     1,
		PageSize: DefaultPageSize,
		Filters:  map[string]string{},
	}
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of q.
func (q ListQuery) Clone() ListQuery {
	c := q
	c.Filters = maps.Clone(q.Filters)
	if c.Filters == nil {
		c.Filters = map[string]string{}
	}
	return c
}

// Filter returns the selected value for key, or "" when not applied.
func (q ListQuery) Filter(key string) string {
	return q.Filters[key]
}

// ActiveFilters returns only the filters with a non-empty value.
func (q ListQuery) ActiveFilters() map[string]string {
	active := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			active[k] = v
		}
	}
	return active
}

// HasFilters reports whether search text or any categorical filter is applied.
func (q ListQuery) HasFilters() bool {
	return q.Search != "" || len(q.ActiveFilters()) > 0
}

// Equal reports whether two queries would produce the same request.
// Filters with empty values are treated as absent.
func (q ListQuery) Equal(o ListQuery) bool {
	if q.Page != o.Page || q.PageSize != o.PageSize || q.Search != o.Search {
		return false
	}
	return maps.Equal(q.ActiveFilters(), o.ActiveFilters())
}

// WithSearch returns a copy with the search text set and the page reset to 1.
func (q ListQuery) WithSearch(text string) ListQuery {
	c := q.Clone()
	c.Search = text
	c.Page = 1
	return c
}

// WithFilter returns a copy with one filter set and the page reset to 1.
func (q ListQuery) WithFilter(key, value string) ListQuery {
	c := q.Clone()
	if value == "" {
		delete(c.Filters, key)
	} else {
		c.Filters[key] = value
	}
	c.Page = 1
	return c
}

// WithPageSize returns a copy with the page size set and the page reset to 1.
func (q ListQuery) WithPageSize(n int) (ListQuery, error) {
	if !ValidPageSize(n) {
		return q, ErrInvalidPageSize
	}
	c := q.Clone()
	c.PageSize = n
	c.Page = 1
	return c, nil
}

// WithPage returns a copy pointing at page n. Upper bounds are the caller's
// concern since only the controller knows the total page count.
func (q ListQuery) WithPage(n int) (ListQuery, error) {
	if n < 1 {
		return q, ErrInvalidPage
	}
	c := q.Clone()
	c.Page = n
	return c, nil
}

// Cleared returns a copy with search and all filters emptied and the page reset to 1.
func (q ListQuery) Cleared() ListQuery {
	c := q.Clone()
	c.Search = ""
	c.Filters = map[string]string{}
	c.Page = 1
	return c
}

// Values encodes q as request parameters: page, limit, and only the
// non-empty search and filter fields.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(q.Page))
	v.Set(ParamLimit, strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	for k, val := range q.ActiveFilters() {
		v.Set(k, val)
	}
	return v
}

// FromValues decodes URL query parameters into a ListQuery. Only the given
// filter keys are read. Malformed or out-of-range page and limit values fall
// back to the defaults rather than failing, since they come from the address bar.
func FromValues(v url.Values, filterKeys []string) ListQuery {
	q := New()

	if page, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPage))); err == nil && page >= 1 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamLimit))); err == nil && ValidPageSize(limit) {
		q.PageSize = limit
	}
	q.Search = v.Get(ParamSearch)

	for _, key := range filterKeys {
		if val := v.Get(key); val != "" {
			q.Filters[key] = val
		}
	}

	return q
}

// HasListParams reports whether v carries any of the list parameters or filter keys.
func HasListParams(v url.Values, filterKeys []string) bool {
	for _, key := range append([]string{ParamPage, ParamLimit, ParamSearch}, filterKeys...) {
		if v.Has(key) {
			return true
		}
	}
	return false
}
