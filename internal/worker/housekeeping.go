package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/repository"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

// Housekeeper handles the scheduled maintenance tasks.
type Housekeeper struct {
	sessions  repository.SessionRepository
	activity  *service.ActivityService
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewHousekeeper builds the task handlers.
func NewHousekeeper(sessions repository.SessionRepository, activity *service.ActivityService, retention time.Duration, logger *zap.Logger) *Housekeeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Housekeeper{sessions: sessions, activity: activity, retention: retention, logger: logger, now: time.Now}
}

// HandleSessionCleanup deletes session rows whose token has expired.
func (h *Housekeeper) HandleSessionCleanup(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.sessions.DeleteExpired(ctx, h.now().UTC())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	h.logger.Info("expired sessions removed", zap.Int64("removed", removed))
	return nil
}

// HandleActivityPrune deletes activity entries older than the retention window.
func (h *Housekeeper) HandleActivityPrune(ctx context.Context, _ *asynq.Task) error {
	if h.retention <= 0 {
		return nil
	}
	if _, err := h.activity.Prune(ctx, h.retention); err != nil {
		return fmt.Errorf("prune activity: %w", err)
	}
	return nil
}

// Handlers returns the task registrations served by the worker.
func (h *Housekeeper) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskSessionCleanup, Handler: h.HandleSessionCleanup},
		{Type: TaskActivityPrune, Handler: h.HandleActivityPrune},
	}
}
