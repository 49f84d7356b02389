// Package app wires the storefront API server: configuration, storage,
// domain services, HTTP routing and graceful shutdown.
package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/db"
	"github.com/xenking/outdoor-shop/internal/domain/order"
	"github.com/xenking/outdoor-shop/internal/domain/product"
	"github.com/xenking/outdoor-shop/internal/handler"
	"github.com/xenking/outdoor-shop/internal/storage/postgres"
	"github.com/xenking/outdoor-shop/pkg/health"
	"github.com/xenking/outdoor-shop/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	if cfg.SeedCatalog {
		if err := seedCatalog(ctx, lg, productRepo); err != nil {
			return errors.Wrap(err, "seed catalog")
		}
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services + HTTP handlers.
	orderService := order.NewService(productRepo, orderRepo, lg.Named("order"))
	h := handler.New(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		productRepo,
		orderService,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			instrument(m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// instrument wraps the handler chain with OpenTelemetry HTTP server
// instrumentation backed by the application telemetry providers.
func instrument(m *app.Telemetry) httpmiddleware.Middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "shop-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)
	}
}

// seedCatalog loads the embedded default catalog when the products table is
// empty, mirroring a fresh deployment bootstrapping its storefront.
func seedCatalog(ctx context.Context, lg *zap.Logger, repo *postgres.ProductRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count products")
	}
	if count > 0 {
		return nil
	}

	var products []product.Product
	if err := json.Unmarshal(db.SeedProducts, &products); err != nil {
		return errors.Wrap(err, "decode seed data")
	}
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "seed product %s", p.ID)
		}
	}
	lg.Info("Seeded product catalog", zap.Int("products", len(products)))
	return nil
}
