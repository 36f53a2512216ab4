package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository"
)

type mediaRepository struct {
	db *gorm.DB
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	model := mediaModel{
		FileName:     media.FileName,
		OriginalName: media.OriginalName,
		MimeType:     media.MimeType,
		SizeBytes:    media.SizeBytes,
		URL:          media.URL,
		AltText:      media.AltText,
		UploadedBy:   media.UploadedBy,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return mapError(err)
	}
	media.ID = model.ID
	media.CreatedAt = model.CreatedAt
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*domain.Media, error) {
	var model mediaModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, mapError(err)
	}
	media := model.toDomain()
	return &media, nil
}

func (r *mediaRepository) List(ctx context.Context, limit, offset int) ([]domain.Media, error) {
	limit, offset = page(limit, offset)
	var models []mediaModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	result := make([]domain.Media, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&mediaModel{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
