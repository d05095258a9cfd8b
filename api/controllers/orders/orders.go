package orders

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/api/validators"
	internalorders "github.com/oxygenixlabs/storefront/internal/orders"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
	"github.com/oxygenixlabs/storefront/pkg/pagination"
)

type orderReader interface {
	ListByUser(ctx context.Context, params internalorders.ListParams) (*internalorders.ListResult, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Order, error)
}

type listResponse struct {
	Orders []internalorders.OrderDTO `json:"orders"`
	Cursor string                    `json:"cursor,omitempty"`
}

// List returns a page of the caller's orders, newest first. ?status= narrows
// the list and ?cursor= continues from a previous page.
func List(repo orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, repo, logg)
		if !ok {
			return
		}
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseOrderStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := repo.ListByUser(r.Context(), internalorders.ListParams{
			UserID: userID,
			Status: status,
			Page:   pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{
			Orders: internalorders.FromModels(page.Orders),
			Cursor: page.Cursor,
		})
	}
}

func Detail(repo orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, repo, logg)
		if !ok {
			return
		}
		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id required"))
			return
		}

		order, err := repo.GetForUser(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.FromModel(*order))
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, repo orderReader, logg *logger.Logger) (string, bool) {
	if repo == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
		return "", false
	}
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return user.ID, true
}
