package gormstore

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details := datatypes.JSONMap{}
	for k, v := range entry.Details {
		details[k] = v
	}
	model := activityModel{
		UserID:     entry.UserID,
		Username:   entry.Username,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    details,
		IP:         entry.IP,
		CreatedAt:  entry.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return mapError(err)
	}
	entry.ID = model.ID
	return nil
}

func (r *activityRepository) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	limit, offset = page(limit, offset)
	var models []activityModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	result := make([]domain.ActivityLog, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *activityRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&activityModel{})
	return res.RowsAffected, mapError(res.Error)
}
