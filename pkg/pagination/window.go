package pagination

import "strconv"

const (
	// DefaultSiblings is the number of pages shown on each side of the current page.
	DefaultSiblings = 1

	// MaxVisibleWide is the control budget for regular viewports.
	MaxVisibleWide = 5

	// MaxVisibleNarrow is the control budget for narrow (mobile) viewports.
	MaxVisibleNarrow = 3

	// minVisible leaves room for first, last and one middle page.
	minVisible = 3

	// boundaryCount pages are always shown at each end.
	boundaryCount = 1
)

// Entry is one pagination control: either a page number or an ellipsis.
type Entry struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Label returns the text shown for the entry.
func (e Entry) Label() string {
	if e.Ellipsis {
		return "..."
	}
	return strconv.Itoa(e.Page)
}

// Window is the ordered list of controls.
type Window []Entry

// Pages returns the page numbers in the window, skipping ellipses.
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w))
	for _, e := range w {
		if !e.Ellipsis {
			pages = append(pages, e.Page)
		}
	}
	return pages
}

// Render computes the pagination window.
//
// Page 1 is always present, as is totalPages when it is greater than 1.
// Between them sits a window of siblings around current, shrunk to
// maxVisible-2 pages when it would not fit. When shrinking, the window keeps
// its start near the first page, keeps its end near the last page, and
// otherwise trims floor(excess/2) from the start and the rest from the end;
// a trim never removes the current page.
//
// current is expected within [1, totalPages]; values outside it simply leave
// no entry marked Current.
func Render(current, totalPages, maxVisible, siblingCount int) Window {
	if totalPages < 1 {
		totalPages = 1
	}
	if maxVisible < minVisible {
		maxVisible = minVisible
	}
	if siblingCount < 0 {
		siblingCount = 0
	}

	startPage := max(2, current-siblingCount)
	endPage := min(totalPages-1, current+siblingCount)

	budget := maxVisible - 2*boundaryCount
	if middle := endPage - startPage + 1; middle > budget {
		excess := middle - budget

		// room on each side of the current page that may be trimmed
		roomBefore := max(0, current-startPage)
		roomAfter := max(0, endPage-current)

		cutStart := min(excess/2, roomBefore)
		cutEnd := excess - cutStart
		if cutEnd > roomAfter {
			cutEnd = roomAfter
			cutStart = excess - cutEnd
		}

		startPage += cutStart
		endPage -= cutEnd
	}

	w := make(Window, 0, maxVisible+2)
	w = append(w, Entry{Page: 1, Current: current == 1})

	if startPage > 2 {
		w = append(w, Entry{Ellipsis: true})
	}

	for p := startPage; p <= endPage; p++ {
		w = append(w, Entry{Page: p, Current: current == p})
	}

	if endPage < totalPages-1 {
		w = append(w, Entry{Ellipsis: true})
	}

	if totalPages > 1 {
		w = append(w, Entry{Page: totalPages, Current: current == totalPages})
	}

	return w
}
