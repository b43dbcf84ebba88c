package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/caddie-pos/caddie-pos/internal/alerts"
	"github.com/caddie-pos/caddie-pos/internal/app"
	"github.com/caddie-pos/caddie-pos/internal/catalog"
	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/observability"
	"github.com/caddie-pos/caddie-pos/internal/platform/cache"
	"github.com/caddie-pos/caddie-pos/internal/platform/db"
	"github.com/caddie-pos/caddie-pos/internal/reporting"
	"github.com/caddie-pos/caddie-pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := observability.NewMetrics()
	catalogService := catalog.NewService(catalog.NewRepository(pool))
	alertsService := alerts.NewService(logger, alerts.NewRepository(pool), metrics)
	inventoryService := inventory.NewService(logger, inventory.NewRepository(pool), catalogService, alertsService)

	statsCache := reporting.NewCache(logger, redisClient, cfg.StatsCacheTTL)
	reportingService := reporting.NewService(logger, reporting.NewPGRepository(pool), statsCache)

	sweepJob := jobs.NewExpirySweepJob(inventoryService, logger)
	warmupJob := jobs.NewStatsWarmupJob(reportingService, logger)
	cleanupJob := jobs.NewCleanupJob(pool, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExpirySweep, Handler: sweepJob.Handle},
			{Type: jobs.TaskStatsWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ExpirySweepSpec, Task: jobs.NewExpirySweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 1 * * *", Task: jobs.NewStatsWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 2 * * *", Task: jobs.NewCleanupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
