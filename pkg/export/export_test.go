package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type order struct {
	ID    string
	User  string
	Total *decimal.Decimal
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var orderEncoder = Encoder[order]{
	Screen: "test",
	Columns: []Column[order]{
		{Title: "Order ID", Value: func(o order) string { return o.ID }},
		{Title: "User", Value: func(o order) string { return Optional(o.User) }},
		{Title: "Total Price", Value: func(o order) string { return OptionalMoney(o.Total) }},
	},
}

func TestEncode_TwoRows(t *testing.T) {
	rows := []order{
		{ID: "1", User: "Ann", Total: dec("9")},
		{ID: "2", Total: dec("10.5")},
	}

	got := orderEncoder.Encode(rows)
	want := "Order ID,User,Total Price\n1,Ann,9.00\n2,N/A,10.50"

	if got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncode_NoRows(t *testing.T) {
	if got := orderEncoder.Encode(nil); got != "Order ID,User,Total Price" {
		t.Errorf("Encode(nil) = %q, want header only", got)
	}
}

func TestEncode_NoEscaping(t *testing.T) {
	got := orderEncoder.Encode([]order{{ID: "3", User: "Doe, Jane"}})
	lines := strings.Split(got, "\n")

	if lines[1] != "3,Doe, Jane,0.00" {
		t.Errorf("row = %q, want raw comma-joined fields", lines[1])
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := orderEncoder.Write(&buf, []order{{ID: "1", Total: dec("1.005")}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := buf.String(); got != "Order ID,User,Total Price\n1,N/A,1.01" {
		t.Errorf("Write() wrote %q", got)
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"optional empty", Optional(""), "N/A"},
		{"optional value", Optional("cod"), "cod"},
		{"money integer", Money(decimal.NewFromInt(9)), "9.00"},
		{"money fraction", Money(decimal.RequireFromString("10.5")), "10.50"},
		{"money nil", OptionalMoney(nil), "0.00"},
		{"date", DateTime(time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)), "03/07/24, 09:05"},
		{"date zero", DateTime(time.Time{}), "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
