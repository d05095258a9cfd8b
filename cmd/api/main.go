package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/oxygenixlabs/storefront/api/controllers"
	"github.com/oxygenixlabs/storefront/api/middleware"
	"github.com/oxygenixlabs/storefront/api/routes"
	"github.com/oxygenixlabs/storefront/internal/cart"
	"github.com/oxygenixlabs/storefront/internal/catalog"
	"github.com/oxygenixlabs/storefront/internal/checkout"
	"github.com/oxygenixlabs/storefront/internal/cron"
	"github.com/oxygenixlabs/storefront/internal/orders"
	"github.com/oxygenixlabs/storefront/internal/session"
	"github.com/oxygenixlabs/storefront/internal/storage"
	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/db"
	"github.com/oxygenixlabs/storefront/pkg/instance"
	"github.com/oxygenixlabs/storefront/pkg/logger"
	"github.com/oxygenixlabs/storefront/pkg/metrics"
	"github.com/oxygenixlabs/storefront/pkg/migrate"
	"github.com/oxygenixlabs/storefront/pkg/redis"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepLockKey    = "oxy:lock:snapshot-sweep"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error releasing resources", errs)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
	}

	snapshots, err := storage.Open(cfg.Storage, storage.Deps{Redis: redisClient, DB: dbClient})
	if err != nil {
		logg.Error(ctx, "failed to open snapshot storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewStorefront(registry)

	persister, err := cart.NewPersister(snapshots, cfg.Cart.Namespace, logg, recorder)
	if err != nil {
		logg.Error(ctx, "failed to create cart persister", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(persister, logg, recorder)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	sessionService, err := session.NewService(session.ServiceParams{
		Storage:  snapshots,
		Session:  cfg.Session,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Orders:  ordersRepo,
		Payment: checkout.StubGateway{},
		Logger:  logg,
		Metrics: recorder,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Metrics:  recorder,
		Gatherer: registry,
		Catalog:  catalog.Default(),
		Carts:    cartService,
		Sessions: sessionService,
		Checkout: checkoutService,
		Orders:   ordersRepo,
	}
	if redisClient != nil {
		deps.Redis = controllers.Pinger(redisClient)
		deps.RateLimiter = middleware.RateLimiter(redisClient)
	}

	if sweeper, ok := snapshots.(storage.Sweeper); ok {
		if err := startSweeper(ctx, cfg, logg, recorder, redisClient, sweeper); err != nil {
			logg.Error(ctx, "failed to start snapshot sweeper", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"storage_driver": cfg.Storage.NormalizedDriver(),
		"db_driver":      dbClient.Driver(),
		"instance":       instance.GetID(),
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			return
		}
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
	}
}

// startSweeper runs the expired snapshot sweep in the background. With redis
// configured the cycle is coordinated across instances.
func startSweeper(ctx context.Context, cfg *config.Config, logg *logger.Logger, recorder *metrics.Storefront, redisClient *redis.Client, sweeper storage.Sweeper) error {
	job, err := cron.NewSnapshotSweepJob(cron.SnapshotSweepJobParams{Logger: logg, Sweeper: sweeper})
	if err != nil {
		return err
	}

	var lock cron.Lock = cron.NewLocalLock()
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, sweepLockKey, cfg.Sweep.LockTTL)
		if err != nil {
			return err
		}
		lock = redisLock
	}

	svc, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  recorder,
		Interval: cfg.Sweep.Interval,
	})
	if err != nil {
		return err
	}

	go func() {
		if err := svc.Run(logg.WithField(ctx, "component", "cron")); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "snapshot sweeper stopped", err)
		}
	}()
	return nil
}
