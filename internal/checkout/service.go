// Package checkout turns a visitor's cart into a persisted order.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/oxygenixlabs/storefront/internal/cart"
	"github.com/oxygenixlabs/storefront/internal/orders"
	"github.com/oxygenixlabs/storefront/internal/session"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

// AddOnLineName labels the maintenance contract row of an order.
const AddOnLineName = "AMC - Annual"

const (
	outcomeSuccess         = "success"
	outcomeUnauthenticated = "unauthenticated"
	outcomeEmptyCart       = "empty_cart"
	outcomeInvalid         = "invalid"
	outcomePaymentFailed   = "payment_failed"
	outcomeError           = "error"
)

type orderCreator interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// Recorder receives checkout outcomes. *metrics.Storefront satisfies it.
type Recorder interface {
	Checkout(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Checkout(string) {}

// PlaceOrderInput is the buyer supplied part of an order.
type PlaceOrderInput struct {
	Shipping      models.ShippingAddress
	PaymentMethod string
}

type Service struct {
	orders  orderCreator
	payment PaymentGateway
	logg    *logger.Logger
	metrics Recorder
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Orders  orderCreator
	Payment PaymentGateway
	Logger  *logger.Logger
	Metrics Recorder
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	payment := params.Payment
	if payment == nil {
		payment = StubGateway{}
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		orders:  params.Orders,
		payment: payment,
		logg:    params.Logger,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

// PlaceOrder charges and persists the cart's contents for user, then clears
// the cart. The cart is held for the whole call, so concurrent additions land
// after the clear. It is left untouched on any failure.
func (s *Service) PlaceOrder(ctx context.Context, user *session.User, store *cart.Store, input PlaceOrderInput) (*models.Order, error) {
	if user == nil {
		s.metrics.Checkout(outcomeUnauthenticated)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to checkout")
	}
	if store == nil {
		s.metrics.Checkout(outcomeError)
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable")
	}
	ctx = s.logg.WithUserID(ctx, user.ID)
	ctx = s.logg.WithCartID(ctx, store.ID())

	var created *models.Order
	err := store.Drain(ctx, func(items []cart.LineItem, totals cart.Totals) error {
		if totals.ItemCount == 0 {
			s.metrics.Checkout(outcomeEmptyCart)
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		address := normalizeAddress(input.Shipping)
		method, err := validateInput(address, input.PaymentMethod)
		if err != nil {
			s.metrics.Checkout(outcomeInvalid)
			return err
		}

		now := s.now().UTC()
		order := &models.Order{
			ID:              orders.NewOrderID(now),
			UserID:          user.ID,
			Status:          enums.OrderStatusProcessing,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Total:           totals.Total,
			ShippingAddress: address,
			PaymentMethod:   method,
			Lines:           buildLines(items),
			CreatedAt:       now,
		}
		orderCtx := s.logg.WithField(ctx, "order_id", order.ID)

		status, err := s.payment.Charge(orderCtx, order.ID, order.Total, method)
		if err != nil {
			s.metrics.Checkout(outcomePaymentFailed)
			s.logg.Error(orderCtx, "payment failed", err)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failed")
		}
		order.PaymentStatus = status

		created, err = s.orders.Create(orderCtx, order)
		if err != nil {
			s.metrics.Checkout(outcomeError)
			s.logg.Error(orderCtx, "failed to persist order", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Checkout(outcomeSuccess)
	s.logg.Info(s.logg.WithField(ctx, "order_id", created.ID), "order placed")
	return created, nil
}

// buildLines emits one row per cart item plus an AMC row for every item with
// the add-on applied.
func buildLines(items []cart.LineItem) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLine{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.ProductName,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.UnitPrice * int64(item.Quantity),
		})
		if item.AddOnApplied() {
			price := *item.AddOnUnitPrice
			lines = append(lines, models.OrderLine{
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				Name:        AddOnLineName,
				VariantName: item.ProductName + " " + item.VariantName,
				IsAddOn:     true,
				UnitPrice:   price,
				Quantity:    item.Quantity,
				LineTotal:   price * int64(item.Quantity),
			})
		}
	}
	return lines
}
