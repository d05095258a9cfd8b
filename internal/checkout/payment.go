package checkout

import (
	"context"

	"github.com/oxygenixlabs/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// PaymentGateway settles an order amount.
type PaymentGateway interface {
	Charge(ctx context.Context, orderID string, amount decimal.Decimal, method enums.PaymentMethod) (enums.PaymentStatus, error)
}

// StubGateway accepts every charge without contacting a processor.
type StubGateway struct{}

func (StubGateway) Charge(context.Context, string, decimal.Decimal, enums.PaymentMethod) (enums.PaymentStatus, error) {
	return enums.PaymentStatusStubbed, nil
}
