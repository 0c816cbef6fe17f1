package web

import (
	"net/url"
	"slices"

	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/grid"
	"github.com/Sternrassler/shop-admin/pkg/pagination"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/Sternrassler/shop-admin/pkg/theme"
	"github.com/gin-gonic/gin"
)

// pageView is the template data of a screen page.
type pageView struct {
	Title             string
	Path              string
	Dark              bool
	Search            string
	SearchPlaceholder string
	Filters           []grid.FilterState
	PageSize          int
	PageSizes         []int

	View          grid.View
	Message       string
	Notifications []fetch.Notification

	Headers []string
	Rows    [][]cell

	Range     string
	Pages     []pageLink
	PrevURL   string
	NextURL   string
	PageInput string
	Hidden    []hiddenField

	RetryURL  string
	ClearURL  string
	ExportURL string
}

type cell struct {
	Text  string
	Class string
}

type pageLink struct {
	Label    string
	URL      string
	Current  bool
	Ellipsis bool
}

type hiddenField struct {
	Name  string
	Value string
}

func newPageView[T any](h *screenHandler[T], c *gin.Context, st grid.State[T], win pagination.Window, notes []fetch.Notification) pageView {
	mode := theme.FromContext(c.Request.Context())
	q := st.Query

	v := pageView{
		Title:             h.screen.Title,
		Path:              h.path,
		Dark:              mode.IsDark(),
		Search:            q.Search,
		SearchPlaceholder: h.screen.SearchPlaceholder,
		Filters:           st.Filters,
		PageSize:          q.PageSize,
		PageSizes:         query.PageSizes,
		View:              st.View(),
		Message:           st.Message,
		Notifications:     notes,
		Range:             st.Range.String(),
		PageInput:         st.PageInput,
		RetryURL:          h.pageURL(q),
		ClearURL:          h.path + "?" + paramClear + "=1",
		ExportURL:         h.path + "/export?" + q.Values().Encode(),
	}

	for _, col := range h.screen.Table {
		v.Headers = append(v.Headers, col.Title)
	}
	for _, item := range st.Items {
		row := make([]cell, len(h.screen.Table))
		for i, col := range h.screen.Table {
			row[i] = cell{Text: col.Value(item)}
			if col.Class != nil {
				row[i].Class = col.Class(item, mode)
			}
		}
		v.Rows = append(v.Rows, row)
	}

	for _, e := range win {
		link := pageLink{Label: e.Label(), Current: e.Current, Ellipsis: e.Ellipsis}
		if !e.Ellipsis {
			link.URL = h.pageURL(withPage(q, e.Page))
		}
		v.Pages = append(v.Pages, link)
	}
	if st.HasPrev() {
		v.PrevURL = h.pageURL(withPage(q, q.Page-1))
	}
	if st.HasNext() {
		v.NextURL = h.pageURL(withPage(q, q.Page+1))
	}

	// The go-to form resubmits the current query alongside the typed page.
	v.Hidden = hiddenFields(q.Values())

	return v
}

func (h *screenHandler[T]) pageURL(q query.ListQuery) string {
	return h.path + "?" + q.Values().Encode()
}

func withPage(q query.ListQuery, n int) query.ListQuery {
	p, err := q.WithPage(n)
	if err != nil {
		return q
	}
	return p
}

func hiddenFields(v url.Values) []hiddenField {
	var fields []hiddenField
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, val := range v[name] {
			fields = append(fields, hiddenField{Name: name, Value: val})
		}
	}
	return fields
}
