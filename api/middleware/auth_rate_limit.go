package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/pkg/config"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

// accountPeekLimit bounds how much of an auth body is read to find the email.
const accountPeekLimit = 16 << 10

// RateLimiter is satisfied by *redis.Client.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AttemptPolicy caps auth attempts on one surface (login, signup,
// forgot-password) per client address and per account email within Window.
// A zero limit disables that counter.
type AttemptPolicy struct {
	Surface    string
	Window     time.Duration
	PerClient  int
	PerAccount int
}

// LoginAttempts is the policy for credential checks. forgot-password shares
// its limits under a separate surface.
func LoginAttempts(cfg config.AuthRateLimitConfig, surface string) AttemptPolicy {
	return AttemptPolicy{
		Surface:    surface,
		Window:     cfg.LoginWindow,
		PerClient:  cfg.LoginIPLimit,
		PerAccount: cfg.LoginEmailLimit,
	}
}

func SignupAttempts(cfg config.AuthRateLimitConfig) AttemptPolicy {
	return AttemptPolicy{
		Surface:    "signup",
		Window:     cfg.SignupWindow,
		PerClient:  cfg.SignupIPLimit,
		PerAccount: cfg.SignupEmailLimit,
	}
}

func (p AttemptPolicy) active() bool {
	return p.Window > 0 && (p.PerClient > 0 || p.PerAccount > 0)
}

func (p AttemptPolicy) scope(kind, value string) string {
	surface := strings.ToLower(strings.TrimSpace(p.Surface))
	if surface == "" {
		surface = "auth"
	}
	return "auth:" + surface + ":" + kind + ":" + value
}

// ThrottleAttempts rejects auth requests over the policy with 429 and a
// Retry-After header. Limiter outages let the request through with a warning.
func ThrottleAttempts(policy AttemptPolicy, limiter RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerClient > 0 {
				if client := clientAddress(r); client != "" {
					if !admit(ctx, w, logg, limiter, policy, "client", client, policy.PerClient) {
						return
					}
				}
			}

			if policy.PerAccount > 0 {
				account, err := peekAccount(r)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				if account != "" && !admit(ctx, w, logg, limiter, policy, "account", account, policy.PerAccount) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// admit counts one attempt and writes the 429 itself when the caller is over.
func admit(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, limiter RateLimiter, policy AttemptPolicy, kind, value string, limit int) bool {
	allowed, attempts, err := limiter.FixedWindowAllow(ctx, policy.scope(kind, value), int64(limit), policy.Window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"surface": policy.Surface,
				"error":   err.Error(),
			}), "auth throttle unavailable; admitting request")
		}
		return true
	}
	if allowed {
		return true
	}

	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"surface":  policy.Surface,
			"counter":  kind,
			"attempts": attempts,
			"limit":    limit,
		}), "auth attempts throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

// peekAccount returns a hash of the normalized email in the JSON body and
// restores the body for the next handler.
func peekAccount(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, accountPeekLimit))
	if err != nil {
		return "", err
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(head, &body) != nil {
		return "", nil
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return "", nil
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:12]), nil
}

// clientAddress prefers the first X-Forwarded-For hop set by the load
// balancer in front of the api.
func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
