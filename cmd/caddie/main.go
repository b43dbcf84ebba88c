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

	"github.com/caddie-pos/caddie-pos/internal/alerts"
	"github.com/caddie-pos/caddie-pos/internal/app"
	"github.com/caddie-pos/caddie-pos/internal/auth"
	"github.com/caddie-pos/caddie-pos/internal/catalog"
	"github.com/caddie-pos/caddie-pos/internal/finance"
	"github.com/caddie-pos/caddie-pos/internal/hr"
	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/loyalty"
	"github.com/caddie-pos/caddie-pos/internal/observability"
	"github.com/caddie-pos/caddie-pos/internal/platform/cache"
	"github.com/caddie-pos/caddie-pos/internal/platform/db"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/reporting"
	"github.com/caddie-pos/caddie-pos/internal/sales"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

const sessionCookie = "caddie_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessions := shared.NewSessionManager(redisClient, sessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()
	rbacMW := rbac.Middleware{Logger: logger}

	authService := auth.NewService(auth.NewRepository(pool))
	catalogService := catalog.NewService(catalog.NewRepository(pool))
	alertsService := alerts.NewService(logger, alerts.NewRepository(pool), metrics)
	inventoryService := inventory.NewService(logger, inventory.NewRepository(pool), catalogService, alertsService)
	loyaltyService := loyalty.NewService(loyalty.NewRepository(pool))
	financeService := finance.NewService(finance.NewRepository(pool))
	hrService := hr.NewService(hr.NewPGRepository(pool))

	statsCache := reporting.NewCache(logger, redisClient, cfg.StatsCacheTTL)
	reportingService := reporting.NewService(logger, reporting.NewPGRepository(pool), statsCache)

	salesService := sales.NewService(logger, sales.NewRepository(pool), metrics, statsCache, cfg.ReceiptMaxRetries)

	handler := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessions,

		AuthHandler:      auth.NewHandler(logger, authService, sessions, shared.NewAuditLogger(pool)),
		CatalogHandler:   catalog.NewHandler(logger, catalogService, rbacMW),
		InventoryHandler: inventory.NewHandler(logger, inventoryService, rbacMW),
		AlertsHandler:    alerts.NewHandler(logger, alertsService, rbacMW),
		LoyaltyHandler:   loyalty.NewHandler(logger, loyaltyService, rbacMW),
		SalesHandler:     sales.NewHandler(logger, salesService, rbacMW),
		FinanceHandler:   finance.NewHandler(logger, financeService, rbacMW),
		HRHandler:        hr.NewHandler(logger, hrService, rbacMW),
		ReportingHandler: reporting.NewHandler(logger, reportingService, rbacMW),

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      handler,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
