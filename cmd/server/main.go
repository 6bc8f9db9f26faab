package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/dinnerparty/internal/auth"
	"github.com/mmynk/dinnerparty/internal/config"
	"github.com/mmynk/dinnerparty/internal/gateway"
	"github.com/mmynk/dinnerparty/internal/metrics"
	"github.com/mmynk/dinnerparty/internal/middleware"
	"github.com/mmynk/dinnerparty/internal/party"
	"github.com/mmynk/dinnerparty/internal/service"
	"github.com/mmynk/dinnerparty/internal/storage/sqlite"
	"github.com/mmynk/dinnerparty/internal/worker"
	"github.com/mmynk/dinnerparty/pkg/logging"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == config.DevJWTSecret {
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Party coordination
	ledger := party.NewOrderLedger(m)
	registry := party.NewGroupRegistry(store, store,
		party.WithLeaderRole(cfg.GroupLeaderRole),
		party.WithMemberLeftNotifier(ledger),
		party.WithRegistryMetrics(m),
	)
	psp := gateway.NewClient(gateway.Config{
		BaseURL:           cfg.PaymentAPIURL,
		APIKey:            cfg.PaymentAPIKey,
		Timeout:           cfg.PaymentTimeout,
		RequestsPerSecond: cfg.PaymentAPIRPS,
	})
	coordinator := party.NewPaymentCoordinator(ledger, psp,
		party.WithSettlementTimeout(cfg.SettlementTimeout),
		party.WithCoordinatorMetrics(m),
	)
	janitor := worker.NewOrderJanitor(ledger, cfg.OrderTTL, cfg.JanitorInterval)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, registry, slog.Default())

	logRPC := middleware.LoggingInterceptor()
	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager), logRPC)

	mux := http.NewServeMux()
	mux.Handle(protoconnect.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), logRPC),
	))
	mux.Handle(protoconnect.NewGroupServiceHandler(service.NewGroupService(registry), protected))
	mux.Handle(protoconnect.NewPaymentServiceHandler(service.NewPaymentService(ledger, coordinator), protected))
	mux.Handle(protoconnect.NewUserServiceHandler(service.NewUserService(store), protected))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return janitor.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")

		// Blocked payers return with whatever was paid before the server
		// stops accepting connections.
		ledger.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
