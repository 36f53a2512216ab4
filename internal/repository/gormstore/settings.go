package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type settingRepository struct {
	db *gorm.DB
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var model settingModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	setting := model.toDomain()
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context, publicOnly bool) ([]domain.Setting, error) {
	query := r.db.WithContext(ctx).Order("key")
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	var models []settingModel
	if err := query.Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	result := make([]domain.Setting, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	model := settingModel{
		Key:       setting.Key,
		Value:     setting.Value,
		Public:    setting.Public,
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "is_public", "updated_by", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return mapError(err)
	}
	setting.UpdatedAt = model.UpdatedAt
	return nil
}
