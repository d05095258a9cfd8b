package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/api/validators"
	"github.com/oxygenixlabs/storefront/internal/cart"
	"github.com/oxygenixlabs/storefront/internal/checkout"
	"github.com/oxygenixlabs/storefront/internal/orders"
	"github.com/oxygenixlabs/storefront/internal/session"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

type cartOpener interface {
	Open(ctx context.Context, cartID string) (*cart.Store, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, user *session.User, store *cart.Store, input checkout.PlaceOrderInput) (*models.Order, error)
}

type shippingAddressRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Field rules live in the checkout service so every caller gets the same
// per-field details.
type placeOrderRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// CheckoutPlaceOrder converts the caller's cart into an order and empties it.
func CheckoutPlaceOrder(svc orderPlacer, carts cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID := middleware.CartIDFromContext(r.Context())
		if strings.TrimSpace(cartID) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart id required"))
			return
		}
		store, err := carts.Open(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open cart"))
			return
		}

		addr := req.ShippingAddress
		order, err := svc.PlaceOrder(r.Context(), user, store, checkout.PlaceOrderInput{
			Shipping: models.ShippingAddress{
				FullName: addr.FullName,
				Phone:    addr.Phone,
				Line1:    addr.Line1,
				Line2:    addr.Line2,
				City:     addr.City,
				State:    addr.State,
				Pincode:  addr.Pincode,
			},
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.FromModel(*order))
	}
}
