package middleware

import (
	"context"

	"github.com/oxygenixlabs/storefront/internal/session"
)

type contextKey string

const (
	ctxUser         contextKey = "user"
	ctxSessionToken contextKey = "session_token"
	ctxCartID       contextKey = "cart_id"
)

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *session.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*session.User); ok {
		return v
	}
	return nil
}

func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionToken).(string); ok {
		return v
	}
	return ""
}

func CartIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartID).(string); ok {
		return v
	}
	return ""
}

// WithUser injects the authenticated user and the token that resolved it.
func WithUser(ctx context.Context, user *session.User, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUser, user)
	return context.WithValue(ctx, ctxSessionToken, token)
}

// WithCartID injects the visitor's cart id.
func WithCartID(ctx context.Context, cartID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartID, cartID)
}
