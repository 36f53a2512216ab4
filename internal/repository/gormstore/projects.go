package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository"
)

type projectRepository struct {
	db *gorm.DB
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	model := newProjectModel(project)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return mapError(err)
	}
	project.ID = model.ID
	project.CreatedAt = model.CreatedAt
	project.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	model := newProjectModel(project)
	model.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&projectModel{ID: project.ID}).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	project.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&projectModel{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var model projectModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, mapError(err)
	}
	project := model.toDomain()
	return &project, nil
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	var model projectModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	project := model.toDomain()
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	limit, offset := page(filter.Limit, filter.Offset)
	query := r.db.WithContext(ctx).Model(&projectModel{})
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var models []projectModel
	if err := query.Order("sort_order, id").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	projects := make([]domain.Project, len(models))
	for i, model := range models {
		projects[i] = model.toDomain()
	}
	return projects, nil
}
