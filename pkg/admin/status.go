package admin

import (
	"strings"

	"github.com/Sternrassler/shop-admin/pkg/theme"
)

// FormatStatusText returns the display text of an order status.
func FormatStatusText(status string) string {
	if strings.EqualFold(status, "cancelledbyadmin") {
		return "Cancelled by Admin"
	}
	return status
}

// badge is a light/dark pair of badge classes.
type badge struct {
	light string
	dark  string
}

func (b badge) class(mode theme.Mode) string {
	if mode.IsDark() {
		return b.dark
	}
	return b.light
}

var (
	badgeYellow = badge{light: "bg-yellow-400 text-black", dark: "bg-yellow-600 text-white"}
	badgeBlue   = badge{light: "bg-blue-500 text-white", dark: "bg-blue-700 text-white"}
	badgeGreen  = badge{light: "bg-green-500 text-white", dark: "bg-green-700 text-white"}
	badgeRed    = badge{light: "bg-red-500 text-white", dark: "bg-red-700 text-white"}
	badgeOrange = badge{light: "bg-orange-500 text-white", dark: "bg-orange-700 text-white"}
	badgeGray   = badge{light: "bg-gray-500 text-white", dark: "bg-gray-700 text-white"}
)

var statusBadges = map[string]badge{
	"pending":          badgeYellow,
	"confirmed":        badgeBlue,
	"delivered":        badgeGreen,
	"cancelled":        badgeRed,
	"cancelledbyadmin": badgeRed,
}

var paymentBadges = map[string]badge{
	"paid":   badgeGreen,
	"unpaid": badgeRed,
	"failed": badgeOrange,
}

// StatusClass returns the badge class of an order status.
func StatusClass(status string, mode theme.Mode) string {
	if b, ok := statusBadges[strings.ToLower(status)]; ok {
		return b.class(mode)
	}
	return badgeGray.class(mode)
}

// PaymentStatusClass returns the badge class of a paying status.
func PaymentStatusClass(status string, mode theme.Mode) string {
	if b, ok := paymentBadges[strings.ToLower(status)]; ok {
		return b.class(mode)
	}
	return badgeGray.class(mode)
}
