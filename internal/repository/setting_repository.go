package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type settingRepository struct {
	db dbtx
}

// NewSettingRepository builds the repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{db: conn(pool)}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	const query = `SELECT key, value, is_public, updated_by, updated_at FROM site_settings WHERE key=$1`
	var s domain.Setting
	if err := r.db.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.Public, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}

func (r *settingRepository) List(ctx context.Context, publicOnly bool) ([]domain.Setting, error) {
	query := `SELECT key, value, is_public, updated_by, updated_at FROM site_settings`
	if publicOnly {
		query += ` WHERE is_public = TRUE`
	}
	query += ` ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Public, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *settingRepository) Upsert(ctx context.Context, s *domain.Setting) error {
	const query = `
        INSERT INTO site_settings (key, value, is_public, updated_by, updated_at)
        VALUES ($1,$2,$3,$4,NOW())
        ON CONFLICT (key) DO UPDATE
        SET value=EXCLUDED.value, is_public=EXCLUDED.is_public, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, s.Key, s.Value, s.Public, s.UpdatedBy).Scan(&s.UpdatedAt)
	return mapPgError(err)
}
