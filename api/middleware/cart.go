package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

const cartIDHeader = "X-Cart-Id"

var cartIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// CartID identifies the visitor's cart from the X-Cart-Id header or the cart
// cookie. Visitors without a usable id are issued a new one.
func CartID(cfg config.CartConfig, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := strings.TrimSpace(r.Header.Get(cartIDHeader))
			if cartID == "" && cfg.CookieName != "" {
				if cookie, err := r.Cookie(cfg.CookieName); err == nil {
					cartID = strings.TrimSpace(cookie.Value)
				}
			}

			if !cartIDPattern.MatchString(cartID) {
				cartID = uuid.NewString()
				if cfg.CookieName != "" {
					http.SetCookie(w, &http.Cookie{
						Name:     cfg.CookieName,
						Value:    cartID,
						Path:     "/",
						MaxAge:   int(cfg.CookieTTL.Seconds()),
						HttpOnly: true,
						Secure:   secure,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
			w.Header().Set(cartIDHeader, cartID)

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
