package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caddie-pos/caddie-pos/internal/inventory"
)

// ExpirySweepJob walks active lots past their expiration date, marks
// them expired and raises expired_product alerts. Quantities are never
// touched; an expired lot keeps its remaining stock on record.
type ExpirySweepJob struct {
	Inventory *inventory.Service
	Logger    *slog.Logger
}

func NewExpirySweepJob(inv *inventory.Service, logger *slog.Logger) *ExpirySweepJob {
	return &ExpirySweepJob{Inventory: inv, Logger: logger}
}

// Handle executes the sweep.
func (j *ExpirySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Inventory == nil {
		return errors.New("expiry sweep: handler not configured")
	}
	logger := j.logger()
	start := time.Now()

	expired, err := j.Inventory.SweepExpired(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed expiry sweep",
		slog.Int("expired", expired),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *ExpirySweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskExpirySweep))
	}
	return slog.Default().With(slog.String("job", TaskExpirySweep))
}
