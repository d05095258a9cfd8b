package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTaxAndTotal(t *testing.T) {
	cases := []struct {
		subtotal int64
		tax      string
		total    string
	}{
		{0, "0.00", "0.00"},
		{24999, "4499.82", "29498.82"},
		{74997, "13499.46", "88496.46"},
		{86994, "15658.92", "102652.92"},
		{1, "0.18", "1.18"},
	}
	for _, tc := range cases {
		if got := String(Tax(tc.subtotal)); got != tc.tax {
			t.Fatalf("Tax(%d) = %s, want %s", tc.subtotal, got, tc.tax)
		}
		if got := String(Total(tc.subtotal)); got != tc.total {
			t.Fatalf("Total(%d) = %s, want %s", tc.subtotal, got, tc.total)
		}
	}
}

func TestTaxIsExact(t *testing.T) {
	if !Tax(24999).Equal(decimal.RequireFromString("4499.82")) {
		t.Fatalf("expected exact decimal tax, got %s", Tax(24999))
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[string]string{
		"0":          "₹0",
		"999":        "₹999",
		"24999":      "₹24,999",
		"119999":     "₹1,19,999",
		"1234567":    "₹12,34,567",
		"29498.82":   "₹29,498.82",
		"4499.8":     "₹4,499.80",
		"-1500":      "-₹1,500",
		"100000000":  "₹10,00,00,000",
		"4499.82499": "₹4,499.82",
	}
	for in, want := range cases {
		if got := FormatINR(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatINR(%s) = %q, want %q", in, got, want)
		}
	}
}
