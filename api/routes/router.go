package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oxygenixlabs/storefront/api/controllers"
	cartcontrollers "github.com/oxygenixlabs/storefront/api/controllers/cart"
	ordercontrollers "github.com/oxygenixlabs/storefront/api/controllers/orders"
	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/internal/cart"
	"github.com/oxygenixlabs/storefront/internal/catalog"
	"github.com/oxygenixlabs/storefront/internal/checkout"
	"github.com/oxygenixlabs/storefront/internal/orders"
	"github.com/oxygenixlabs/storefront/internal/session"
	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/logger"
	"github.com/oxygenixlabs/storefront/pkg/metrics"
)

// Dependencies wires the services behind the HTTP surface. RateLimiter and
// Redis may be nil when no redis endpoint is configured.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimiter middleware.RateLimiter
	Metrics     *metrics.Storefront
	Gatherer    prometheus.Gatherer
	Catalog     catalog.Lookup
	Carts       *cart.Service
	Sessions    *session.Service
	Checkout    *checkout.Service
	Orders      orders.Repository
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	throttleLogin := middleware.ThrottleAttempts(middleware.LoginAttempts(cfg.AuthRateLimit, "login"), deps.RateLimiter, logg)
	throttleReset := middleware.ThrottleAttempts(middleware.LoginAttempts(cfg.AuthRateLimit, "forgot-password"), deps.RateLimiter, logg)
	throttleSignup := middleware.ThrottleAttempts(middleware.SignupAttempts(cfg.AuthRateLimit), deps.RateLimiter, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	cartID := middleware.CartID(cfg.Cart, cfg.App.IsProd(), logg)
	requireUser := middleware.Auth(deps.Sessions, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.CategoriesList(deps.Catalog))
		r.Get("/products", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(deps.Catalog, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(throttleLogin).Post("/login", controllers.AuthLogin(deps.Sessions, logg))
			r.With(throttleSignup).Post("/signup", controllers.AuthSignup(deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, logg))
			r.With(throttleReset).Post("/forgot-password", controllers.AuthForgotPassword(deps.Sessions, !cfg.App.IsProd(), logg))
			r.Post("/reset-password", controllers.AuthResetPassword(deps.Sessions, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", controllers.MeProfile(logg))
			r.Patch("/", controllers.MeUpdateProfile(deps.Sessions, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(cartID)
			r.Get("/", cartcontrollers.Get(deps.Carts, logg))
			r.Delete("/", cartcontrollers.Clear(deps.Carts, logg))
			r.Post("/items", cartcontrollers.AddItem(deps.Carts, deps.Catalog, logg))
			r.Patch("/items/{productId}/{variantId}", cartcontrollers.UpdateQuantity(deps.Carts, logg))
			r.Delete("/items/{productId}/{variantId}", cartcontrollers.RemoveItem(deps.Carts, logg))
			r.Post("/items/{productId}/{variantId}/add-on", cartcontrollers.ToggleAddOn(deps.Carts, logg))
		})

		r.With(cartID, requireUser).Post("/checkout", controllers.CheckoutPlaceOrder(deps.Checkout, deps.Carts, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
		})
	})

	return r
}
