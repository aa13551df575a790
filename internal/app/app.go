package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/forkline/storefront/internal/domain/order"
	"github.com/forkline/storefront/internal/handler"
	"github.com/forkline/storefront/internal/mongodb"
	"github.com/forkline/storefront/internal/notify"
	"github.com/forkline/storefront/internal/postgres"
	"github.com/forkline/storefront/internal/secrets"
	"github.com/forkline/storefront/internal/session"
	"github.com/forkline/storefront/pkg/health"
	"github.com/forkline/storefront/pkg/httpmiddleware"
	"github.com/forkline/storefront/pkg/retry"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Metrics, cfg *Config) error {
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

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Session store: Redis when configured, in-process otherwise.
	var store session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		healthSvc.AddReadinessCheck("redis", 5*time.Second, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		store = session.NewRedis(rdb)
	} else {
		lg.Warn("No Redis configured, sessions are held in process memory")
		store = session.NewMemory()
	}
	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	// Order event log: optional, absence means event logging is disabled.
	var eventLog notify.EventLogger
	if cfg.MongoURL != "" {
		mongoLog, err := mongodb.New(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return errors.Wrap(err, "connect event log")
		}
		defer func() { _ = mongoLog.Close(context.Background()) }()
		healthSvc.AddReadinessCheck("mongodb", 5*time.Second, mongoLog.Ping)
		eventLog = mongoLog
	} else {
		lg.Warn("No MongoDB configured, order event logging is disabled")
	}

	// Notification endpoints resolve through secrets; absence disables them.
	resolver := secrets.Env{}
	var receipts notify.ReceiptSender
	if url, ok := resolver.Lookup(SecretReceiptURL); ok {
		receipts = notify.NewHTTPReceiptSender(url)
	} else {
		lg.Warn("Receipt endpoint not configured, receipts are disabled")
	}
	var summary notify.SummarySender
	if url, ok := resolver.Lookup(SecretDailySummaryURL); ok {
		summary = notify.NewHTTPSummarySender(url)
	} else {
		lg.Warn("Daily summary endpoint not configured, summaries are disabled")
	}

	dispatcher := notify.NewDispatcher(eventLog, receipts, retry.Policy{
		Attempts: 3,
		Delay:    time.Second,
	})

	// Repositories and domain services.
	userRepo := postgres.NewUserRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := order.NewService(menuRepo, orderRepo)

	// HTTP surface.
	h := handler.NewHandler(sessions, userRepo, menuRepo, orderRepo, orderSvc, dispatcher, summary)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", otelhttp.NewHandler(h.Routes(), "storefront",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
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
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)

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
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
