package grid

import (
	"slices"

	"github.com/Sternrassler/shop-admin/pkg/export"
	"github.com/Sternrassler/shop-admin/pkg/theme"
)

// Option is one selectable value of a filter.
type Option struct {
	Value string
	Label string
}

// FilterSpec declares a categorical filter of a screen.
type FilterSpec[T any] struct {
	// Key is the request parameter name, e.g. "status".
	Key string

	// AllLabel is the label of the empty "not applied" choice.
	AllLabel string

	// Options is the static list of choices.
	Options []Option

	// FromRows, when set, derives the choices from the loaded rows instead.
	FromRows func(rows []T) []Option
}

// options returns the choices for the given loaded rows.
func (f FilterSpec[T]) options(rows []T) []Option {
	if f.FromRows != nil {
		return f.FromRows(rows)
	}
	return slices.Clone(f.Options)
}

// TableColumn is one column of the on-screen table.
type TableColumn[T any] struct {
	Title string
	Value func(row T) string

	// Class, when set, returns a badge CSS class for the cell.
	Class func(row T, mode theme.Mode) string
}

// Screen configures one list screen. Orders and Users are two instances.
type Screen[T any] struct {
	// Name is the lower-case plural noun used in messages ("orders").
	Name string

	// Title is the page heading.
	Title string

	// Endpoint is the list endpoint path.
	Endpoint string

	// SearchPlaceholder is the hint shown in the search box.
	SearchPlaceholder string

	Filters []FilterSpec[T]
	Table   []TableColumn[T]

	// Columns are the export columns in output order.
	Columns []export.Column[T]

	// ExportFile is the download file name of the CSV export.
	ExportFile string
}

// FilterKeys returns the request parameter names of the screen's filters.
func (s Screen[T]) FilterKeys() []string {
	keys := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		keys[i] = f.Key
	}
	return keys
}

// HasFilter reports whether key is one of the screen's filters.
func (s Screen[T]) HasFilter(key string) bool {
	return slices.Contains(s.FilterKeys(), key)
}

// Encoder returns the export encoder for the screen.
func (s Screen[T]) Encoder() export.Encoder[T] {
	return export.Encoder[T]{Screen: s.Name, Columns: s.Columns}
}

// UniqueOptions builds options from the distinct non-empty values of key over
// rows, in first-seen order.
func UniqueOptions[T any](rows []T, key func(T) string) []Option {
	seen := make(map[string]bool)
	var opts []Option
	for _, r := range rows {
		v := key(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}
