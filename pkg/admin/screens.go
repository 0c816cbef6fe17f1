package admin

import (
	"github.com/Sternrassler/shop-admin/pkg/export"
	"github.com/Sternrassler/shop-admin/pkg/grid"
	"github.com/Sternrassler/shop-admin/pkg/theme"
)

// List endpoints of the backend.
const (
	OrdersEndpoint = "/admin/allOrders"
	UsersEndpoint  = "/admin/users"
)

// Filter keys as the backend names them.
const (
	FilterStatus        = "status"
	FilterPaymentMethod = "PaymentMethod"
	FilterPayingStatus  = "payingStatus"
	FilterRole          = "role"
)

// Orders is the orders screen.
var Orders = grid.Screen[Order]{
	Name:              "orders",
	Title:             "Orders",
	Endpoint:          OrdersEndpoint,
	SearchPlaceholder: "Search by order ID or user",
	Filters: []grid.FilterSpec[Order]{
		{
			Key:      FilterStatus,
			AllLabel: "All statuses",
			Options: []grid.Option{
				{Value: "Pending", Label: "Pending"},
				{Value: "Confirmed", Label: "Confirmed"},
				{Value: "Delivered", Label: "Delivered"},
				{Value: "Cancelled", Label: "Cancelled"},
				{Value: "CancelledByAdmin", Label: "Cancelled by admin"},
			},
		},
		{
			Key:      FilterPaymentMethod,
			AllLabel: "All payment methods",
			Options: []grid.Option{
				{Value: "cod", Label: "COD"},
				{Value: "momo", Label: "MoMo"},
			},
		},
		{
			Key:      FilterPayingStatus,
			AllLabel: "All paying statuses",
			Options: []grid.Option{
				{Value: "Paid", Label: "Paid"},
				{Value: "Unpaid", Label: "Unpaid"},
			},
		},
	},
	Table: []grid.TableColumn[Order]{
		{Title: "Order ID", Value: func(o Order) string { return o.ID }},
		{Title: "User", Value: func(o Order) string { return export.Optional(o.UserName()) }},
		{Title: "Total Price", Value: func(o Order) string { return "$" + export.OptionalMoney(o.TotalPrice) }},
		{
			Title: "Status",
			Value: func(o Order) string { return export.Optional(FormatStatusText(o.Status)) },
			Class: func(o Order, mode theme.Mode) string { return StatusClass(o.Status, mode) },
		},
		{
			Title: "Payment Status",
			Value: func(o Order) string { return export.Optional(o.PayingStatus) },
			Class: func(o Order, mode theme.Mode) string { return PaymentStatusClass(o.PayingStatus, mode) },
		},
		{Title: "Payment Method", Value: func(o Order) string { return export.Optional(o.PaymentMethod) }},
		{Title: "Created At", Value: func(o Order) string { return export.DateTime(o.CreatedAt) }},
	},
	Columns: []export.Column[Order]{
		{Title: "Order ID", Value: func(o Order) string { return o.ID }},
		{Title: "User", Value: func(o Order) string { return export.Optional(o.UserName()) }},
		{Title: "Total Price", Value: func(o Order) string { return export.OptionalMoney(o.TotalPrice) }},
		{Title: "Status", Value: func(o Order) string { return FormatStatusText(export.Optional(o.Status)) }},
		{Title: "Payment Status", Value: func(o Order) string { return export.Optional(o.PayingStatus) }},
		{Title: "Payment Method", Value: func(o Order) string { return export.Optional(o.PaymentMethod) }},
		{Title: "Created At", Value: func(o Order) string { return export.DateTime(o.CreatedAt) }},
	},
	ExportFile: "orders_export.csv",
}

// Users is the users screen. Its role choices come from the loaded rows.
var Users = grid.Screen[User]{
	Name:              "users",
	Title:             "Users",
	Endpoint:          UsersEndpoint,
	SearchPlaceholder: "Search by name or email",
	Filters: []grid.FilterSpec[User]{
		{
			Key:      FilterRole,
			AllLabel: "All roles",
			FromRows: func(rows []User) []grid.Option {
				return grid.UniqueOptions(rows, func(u User) string { return u.Role })
			},
		},
	},
	Table: []grid.TableColumn[User]{
		{Title: "User ID", Value: func(u User) string { return u.UserID }},
		{Title: "Name", Value: func(u User) string { return u.Name }},
		{Title: "Role", Value: func(u User) string { return u.Role }},
		{Title: "Email", Value: func(u User) string { return u.Email }},
		{Title: "Joined At", Value: func(u User) string { return export.DateTime(u.CreatedAt) }},
	},
	Columns: []export.Column[User]{
		{Title: "User ID", Value: func(u User) string { return u.UserID }},
		{Title: "Name", Value: func(u User) string { return u.Name }},
		{Title: "Role", Value: func(u User) string { return u.Role }},
		{Title: "Email", Value: func(u User) string { return u.Email }},
		{Title: "Joined At", Value: func(u User) string { return export.DateTime(u.CreatedAt) }},
	},
	ExportFile: "users_export.csv",
}
