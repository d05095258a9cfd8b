package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/oxygenixlabs/storefront/api/responses"
	"github.com/oxygenixlabs/storefront/pkg/config"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Oxygenix-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency. Nil entries are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Oxygenix-Env", cfg.App.Env)

		failures := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := dep.Ping(ctx)
			cancel()
			if err != nil {
				failures[name] = err.Error()
			}
		}

		if len(failures) > 0 {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failures)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
