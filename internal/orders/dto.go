package orders

import (
	"time"

	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	"github.com/oxygenixlabs/storefront/pkg/money"
)

// LineDTO is one order row as returned by the API.
type LineDTO struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	Name        string `json:"name"`
	VariantName string `json:"variantName,omitempty"`
	IsAddOn     bool   `json:"isAddOn"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"lineTotal"`
}

// OrderDTO is the API shape of an order. Money fields are decimal strings.
type OrderDTO struct {
	ID              string                 `json:"id"`
	Status          enums.OrderStatus      `json:"status"`
	Lines           []LineDTO              `json:"items"`
	Subtotal        int64                  `json:"subtotal"`
	Tax             string                 `json:"tax"`
	Total           string                 `json:"total"`
	TotalDisplay    string                 `json:"totalDisplay"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod    `json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus    `json:"paymentStatus"`
	TrackingNumber  *string                `json:"trackingNumber,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// FromModel converts a persisted order into its API shape.
func FromModel(o models.Order) OrderDTO {
	lines := make([]LineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineDTO{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			Name:        l.Name,
			VariantName: l.VariantName,
			IsAddOn:     l.IsAddOn,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal,
		})
	}
	return OrderDTO{
		ID:              o.ID,
		Status:          o.Status,
		Lines:           lines,
		Subtotal:        o.Subtotal,
		Tax:             money.String(o.Tax),
		Total:           money.String(o.Total),
		TotalDisplay:    money.FormatINR(o.Total),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
	}
}

// FromModels converts a list of orders.
func FromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, FromModel(o))
	}
	return out
}
