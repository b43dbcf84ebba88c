package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskExpirySweep marks overdue lots expired and raises alerts.
	TaskExpirySweep = "inventory:expiry_sweep"
	// TaskStatsWarmup precomputes the supervisor dashboard.
	TaskStatsWarmup = "reporting:warmup"
	// TaskCleanup prunes old audit log entries.
	TaskCleanup = "maintenance:cleanup"
)

// NewExpirySweepTask constructs the hourly expiry sweep task.
func NewExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TaskExpirySweep, nil)
}

// NewStatsWarmupTask constructs the nightly dashboard warmup task.
func NewStatsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskStatsWarmup, nil)
}

// NewCleanupTask constructs the retention cleanup task.
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskCleanup, nil)
}
