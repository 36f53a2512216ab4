package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	model := userModel{
		Username: user.Username,
		Password: user.Password,
		Role:     string(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return mapError(err)
	}
	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.toDomain(), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	return model.toDomain(), nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit, offset = page(limit, offset)
	var models []userModel
	if err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = *model.toDomain()
	}
	return users, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	return r.update(ctx, id, "password", password)
}

func (r *userRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return r.update(ctx, id, "role", string(role))
}

func (r *userRepository) update(ctx context.Context, id int64, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
