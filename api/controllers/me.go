package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/api/validators"
	"github.com/oxygenixlabs/storefront/internal/session"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

type profileUpdater interface {
	UpdateProfile(ctx context.Context, token string, update session.ProfileUpdate) (*session.User, error)
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=50"`
	Phone *string `json:"phone" validate:"omitempty,in_phone"`
}

func MeProfile(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func MeUpdateProfile(svc profileUpdater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		token := middleware.SessionTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Name != nil {
			name := validators.CleanDisplayName(*req.Name)
			req.Name = &name
		}
		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			req.Phone = &phone
		}

		user, err := svc.UpdateProfile(r.Context(), token, session.ProfileUpdate{Name: req.Name, Phone: req.Phone})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
