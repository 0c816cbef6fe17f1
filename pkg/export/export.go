// Package export encodes the currently loaded rows of an admin list as a CSV
// download.
//
// Fields are comma-joined without quoting. A value that itself contains a
// comma or newline shifts the columns of its row; callers accept this.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// ContentType is the MIME type of the export artifact.
const ContentType = "text/csv"

// NotAvailable replaces absent optional values.
const NotAvailable = "N/A"

// DateTimeLayout renders timestamps as MM/DD/YY, HH:MM.
const DateTimeLayout = "01/02/06, 15:04"

var exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shop_admin_exports_total",
	Help: "Total CSV exports by screen",
}, []string{"screen"})

var exportRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shop_admin_export_rows_total",
	Help: "Total rows written to CSV exports by screen",
}, []string{"screen"})

// Column is one exported field: a header title and a value extractor.
type Column[T any] struct {
	Title string
	Value func(row T) string
}

// Encoder serializes rows of T in a fixed column order.
type Encoder[T any] struct {
	Screen  string
	Columns []Column[T]
}

// Header returns the header line.
func (e Encoder[T]) Header() string {
	titles := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		titles[i] = c.Title
	}
	return strings.Join(titles, ",")
}

// Row returns the line for a single row.
func (e Encoder[T]) Row(row T) string {
	fields := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		fields[i] = c.Value(row)
	}
	return strings.Join(fields, ",")
}

// Encode returns the header line followed by one line per row, joined by
// newlines, without a trailing newline.
func (e Encoder[T]) Encode(rows []T) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, e.Header())
	for _, r := range rows {
		lines = append(lines, e.Row(r))
	}
	return strings.Join(lines, "\n")
}

// Write encodes rows to w.
func (e Encoder[T]) Write(w io.Writer, rows []T) error {
	if _, err := io.WriteString(w, e.Encode(rows)); err != nil {
		return err
	}
	if e.Screen != "" {
		exportsTotal.WithLabelValues(e.Screen).Inc()
		exportRows.WithLabelValues(e.Screen).Add(float64(len(rows)))
	}
	return nil
}

// Optional returns s, or NotAvailable when s is empty.
func Optional(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// Money formats d with exactly two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// OptionalMoney formats d with two decimals, or "0.00" when absent.
func OptionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return decimal.Zero.StringFixed(2)
	}
	return Money(*d)
}

// DateTime formats t as MM/DD/YY, HH:MM in t's own location, or
// NotAvailable for the zero time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format(DateTimeLayout)
}
