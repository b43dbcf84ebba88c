package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caddie-pos/caddie-pos/internal/reporting"
)

// StatsWarmupJob rebuilds the supervisor dashboard cache so morning
// requests are served warm.
type StatsWarmupJob struct {
	Reporting *reporting.Service
	Logger    *slog.Logger
}

func NewStatsWarmupJob(rep *reporting.Service, logger *slog.Logger) *StatsWarmupJob {
	return &StatsWarmupJob{Reporting: rep, Logger: logger}
}

// Handle executes the warmup.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reporting == nil {
		return errors.New("stats warmup: handler not configured")
	}
	logger := j.logger()
	start := time.Now()

	if err := j.Reporting.Warmup(ctx); err != nil {
		logger.Error("warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed stats warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatsWarmup))
}
