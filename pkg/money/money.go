// Package money holds the storefront's fixed-rate tax arithmetic. Prices are
// whole rupees; derived tax and totals are exact decimals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GSTRate is the flat goods and services tax applied to every order.
var GSTRate = decimal.RequireFromString("0.18")

// Tax returns subtotal × GSTRate.
func Tax(subtotal int64) decimal.Decimal {
	return decimal.NewFromInt(subtotal).Mul(GSTRate)
}

// Total returns subtotal plus tax.
func Total(subtotal int64) decimal.Decimal {
	return decimal.NewFromInt(subtotal).Add(Tax(subtotal))
}

// String renders an amount with two fraction digits, e.g. "4499.82".
func String(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatINR renders an amount the way the storefront displays prices:
// rupee sign, Indian digit grouping, no paise for whole amounts.
func FormatINR(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)

	whole := d.Truncate(0)
	frac := d.Sub(whole)

	out := "₹" + groupIndian(whole.String())
	if !frac.IsZero() {
		out += "." + strings.TrimPrefix(frac.StringFixed(2), "0.")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupIndian applies 3-then-2 digit grouping: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
