package worker

import "github.com/hibiken/asynq"

// Task type names.
const (
	TaskSessionCleanup = "session:cleanup"
	TaskActivityPrune  = "activity:prune"
)

// QueueMaintenance is the queue housekeeping tasks run on.
const QueueMaintenance = "maintenance"

// NewSessionCleanupTask builds the task deleting expired session rows.
func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskSessionCleanup, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(3))
}

// NewActivityPruneTask builds the task deleting old activity entries.
func NewActivityPruneTask() *asynq.Task {
	return asynq.NewTask(TaskActivityPrune, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(3))
}
