package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// ActivityService records domain events in the admin activity log.
type ActivityService struct {
	activities repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService builds the service.
func NewActivityService(activities repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{activities: activities, logger: logger}
}

// Record persists one event.
func (s *ActivityService) Record(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLog{
		UserID:     event.Actor.UserID,
		Username:   event.Actor.Username,
		Action:     string(event.Type),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Details:    event.Payload,
		IP:         event.Actor.IP,
		CreatedAt:  event.Timestamp.UTC(),
	}
	return s.activities.Create(ctx, entry)
}

// List returns the newest entries first.
func (s *ActivityService) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	entries, err := s.activities.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if entries == nil {
		entries = []domain.ActivityLog{}
	}
	return entries, nil
}

// Prune deletes entries older than retention.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	removed, err := s.activities.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("activity log pruned", zap.Int64("removed", removed), zap.Time("before", cutoff))
	return removed, nil
}
