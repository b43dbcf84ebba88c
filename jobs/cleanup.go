package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// auditRetention bounds how long audit log entries are kept.
const auditRetention = 180 * 24 * time.Hour

// CleanupJob prunes audit log entries past the retention window.
type CleanupJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

func NewCleanupJob(pool *pgxpool.Pool, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{Pool: pool, Logger: logger}
}

// Handle executes the retention pass.
func (j *CleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("cleanup: handler not configured")
	}
	logger := j.logger()
	start := time.Now()

	cutoff := time.Now().Add(-auditRetention)
	tag, err := j.Pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		logger.Error("cleanup failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed cleanup",
		slog.Int64("audit_rows_deleted", tag.RowsAffected()),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *CleanupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCleanup))
	}
	return slog.Default().With(slog.String("job", TaskCleanup))
}
