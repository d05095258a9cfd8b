package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"processing", "shipped", "delivered", "cancelled"} {
		got, err := ParseOrderStatus(raw)
		if err != nil || got.String() != raw || !got.IsValid() {
			t.Fatalf("ParseOrderStatus(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseOrderStatus("canceled"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if m, err := ParsePaymentMethod("upi"); err != nil || m != PaymentMethodUPI {
		t.Fatalf("unexpected result %q %v", m, err)
	}
	if _, err := ParsePaymentMethod("cash"); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if PaymentMethod("card").IsValid() != true || PaymentMethod("").IsValid() {
		t.Fatal("unexpected IsValid result")
	}
}
