package cron

import (
	"context"
	"log/slog"
	"time"
)

// TaskStore is the subset of task.Tracker needed by cron jobs.
// Defined here to avoid a dependency on the task package.
type TaskStore interface {
	Prune(maxAge time.Duration) int
}

// TaskCleanupJob removes finished async query tasks older than Retention.
type TaskCleanupJob struct {
	Store        TaskStore
	Retention    time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*TaskCleanupJob)(nil)

// Name implements Job.
func (j *TaskCleanupJob) Name() string { return "task_cleanup" }

// Schedule implements Job.
func (j *TaskCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes finished tasks older than the retention window.
func (j *TaskCleanupJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.Retention)
	if pruned > 0 {
		j.Logger.Info("cron: pruned finished tasks", "count", pruned)
	}
	return nil
}
