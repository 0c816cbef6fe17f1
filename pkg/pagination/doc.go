// Package pagination computes the bounded set of page-number controls shown
// under an admin list: the first and last page, a sliding window around the
// current page, and ellipsis markers for the gaps.
//
// Example usage:
//
//	w := pagination.Render(current, totalPages, pagination.MaxVisibleWide, pagination.DefaultSiblings)
//	for _, e := range w {
//		if e.Ellipsis {
//			// render "..."
//			continue
//		}
//		// render a button for e.Page, highlighted when e.Current
//	}
//
// The maximum number of visible controls is a presentation parameter:
// narrow viewports pass MaxVisibleNarrow.
package pagination
