// Package cart exposes the visitor cart over HTTP.
package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/api/validators"
	"github.com/oxygenixlabs/storefront/internal/catalog"
	internalcart "github.com/oxygenixlabs/storefront/internal/cart"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

type cartOpener interface {
	Open(ctx context.Context, cartID string) (*internalcart.Store, error)
}

type productLookup interface {
	GetProductByID(id string) (catalog.Product, bool)
}

// Get returns the caller's cart, creating an empty one on first use.
func Get(svc cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, NewView(store))
	}
}

// AddItem resolves the variant from the catalog and merges it into the cart.
func AddItem(svc cartOpener, products productLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.ProductID = strings.TrimSpace(req.ProductID)
		req.VariantID = strings.TrimSpace(req.VariantID)

		product, found := products.GetProductByID(req.ProductID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		variant, found := product.Variant(req.VariantID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found"))
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock"))
			return
		}

		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		store.AddItem(r.Context(), catalog.Candidate(product, variant, req.IncludeAddOn), req.Quantity)
		responses.WriteSuccess(w, NewView(store))
	}
}

func UpdateQuantity(svc cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		productID, variantID := itemKey(r)
		store.UpdateQuantity(r.Context(), productID, variantID, *req.Quantity)
		responses.WriteSuccess(w, NewView(store))
	}
}

func RemoveItem(svc cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		productID, variantID := itemKey(r)
		store.RemoveItem(r.Context(), productID, variantID)
		responses.WriteSuccess(w, NewView(store))
	}
}

// ToggleAddOn flips the maintenance add-on. Variants without one are unchanged.
func ToggleAddOn(svc cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		productID, variantID := itemKey(r)
		store.ToggleAddOn(r.Context(), productID, variantID)
		responses.WriteSuccess(w, NewView(store))
	}
}

func Clear(svc cartOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := openStore(w, r, svc, logg)
		if !ok {
			return
		}
		store.Clear(r.Context())
		responses.WriteSuccess(w, NewView(store))
	}
}

func openStore(w http.ResponseWriter, r *http.Request, svc cartOpener, logg *logger.Logger) (*internalcart.Store, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return nil, false
	}
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart id required"))
		return nil, false
	}
	store, err := svc.Open(r.Context(), cartID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open cart"))
		return nil, false
	}
	return store, true
}

func itemKey(r *http.Request) (string, string) {
	return strings.TrimSpace(chi.URLParam(r, "productId")), strings.TrimSpace(chi.URLParam(r, "variantId"))
}
