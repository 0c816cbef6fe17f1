// Package admin defines the Orders and Users screens of the dashboard as two
// instances of the generic grid screen.
package admin

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one row of the orders list as the backend sends it.
type Order struct {
	ID            string           `json:"_id"`
	User          *OrderUser       `json:"user,omitempty"`
	TotalPrice    *decimal.Decimal `json:"totalPrice,omitempty"`
	Status        string           `json:"status,omitempty"`
	PayingStatus  string           `json:"payingStatus,omitempty"`
	PaymentMethod string           `json:"PaymentMethod,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// OrderUser is the customer embedded in an order.
type OrderUser struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserName returns the customer's name, or "" when the order has no user.
func (o Order) UserName() string {
	if o.User == nil {
		return ""
	}
	return o.User.Name
}

// User is one row of the users list.
type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
