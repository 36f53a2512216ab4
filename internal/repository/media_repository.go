package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type mediaRepository struct {
	db dbtx
}

// NewMediaRepository builds the repository.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{db: conn(pool)}
}

func (r *mediaRepository) Create(ctx context.Context, m *domain.Media) error {
	const query = `
        INSERT INTO media (file_name, original_name, mime_type, size_bytes, url, alt_text, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		m.FileName,
		m.OriginalName,
		m.MimeType,
		m.SizeBytes,
		m.URL,
		m.AltText,
		m.UploadedBy,
	).Scan(&m.ID, &m.CreatedAt)
	return mapPgError(err)
}

func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*domain.Media, error) {
	const query = `
        SELECT id, file_name, original_name, mime_type, size_bytes, url, alt_text, uploaded_by, created_at
        FROM media WHERE id=$1`
	var m domain.Media
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.FileName, &m.OriginalName, &m.MimeType, &m.SizeBytes, &m.URL, &m.AltText, &m.UploadedBy, &m.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &m, nil
}

func (r *mediaRepository) List(ctx context.Context, limit, offset int) ([]domain.Media, error) {
	limit, offset = pageBounds(limit, offset)
	const query = `
        SELECT id, file_name, original_name, mime_type, size_bytes, url, alt_text, uploaded_by, created_at
        FROM media ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(&m.ID, &m.FileName, &m.OriginalName, &m.MimeType, &m.SizeBytes, &m.URL, &m.AltText, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM media WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
