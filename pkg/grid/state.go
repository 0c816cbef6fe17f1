package grid

import (
	"fmt"

	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/query"
)

// View is what the screen should render for a State.
type View string

const (
	ViewLoading View = "loading"
	ViewError   View = "error"
	ViewEmpty   View = "empty"
	ViewTable   View = "table"
)

// Range is the "Showing X to Y of Z entries" line.
type Range struct {
	From  int
	To    int
	Total int
}

func (r Range) String() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", r.From, r.To, r.Total)
}

func newRange(q query.ListQuery, totalItems int) Range {
	if totalItems <= 0 {
		return Range{}
	}
	from := (q.Page-1)*q.PageSize + 1
	to := min(q.Page*q.PageSize, totalItems)
	if from > to {
		from = to
	}
	return Range{From: from, To: to, Total: totalItems}
}

// FilterState is a filter with its current selection and choices.
type FilterState struct {
	Key      string
	AllLabel string
	Selected string
	Options  []Option
}

// State is a snapshot of a controller.
type State[T any] struct {
	// Generation identifies the fetch the snapshot belongs to. Snapshots with
	// a lower generation are older.
	Generation uint64

	Query   query.ListQuery
	Status  fetch.Status
	Message string
	Err     error

	// Items are the last applied rows. They survive a failed fetch.
	Items      []T
	TotalItems int
	TotalPages int

	// PageInput is the echo of the "go to page" box.
	PageInput string

	Range   Range
	Filters []FilterState
}

// View returns the render decision for the snapshot.
func (s State[T]) View() View {
	switch {
	case s.Status == fetch.StatusLoading:
		return ViewLoading
	case s.Status == fetch.StatusFailure:
		return ViewError
	case len(s.Items) == 0:
		return ViewEmpty
	default:
		return ViewTable
	}
}

// HasPrev reports whether a previous page exists.
func (s State[T]) HasPrev() bool { return s.Query.Page > 1 }

// HasNext reports whether a next page exists.
func (s State[T]) HasNext() bool { return s.Query.Page < s.TotalPages }
