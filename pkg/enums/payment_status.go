package enums

// PaymentStatus records the outcome of the payment step.
type PaymentStatus string

const (
	// PaymentStatusStubbed marks orders whose payment step was simulated.
	PaymentStatusStubbed PaymentStatus = "stubbed"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

func (s PaymentStatus) String() string {
	return string(s)
}
