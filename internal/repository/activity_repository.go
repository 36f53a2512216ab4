package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type activityRepository struct {
	db dbtx
}

// NewActivityRepository builds the repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{db: conn(pool)}
}

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (user_id, username, action, entity_type, entity_id, details, ip, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	err := r.db.QueryRow(ctx, query,
		entry.UserID,
		entry.Username,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		details,
		entry.IP,
		entry.CreatedAt,
	).Scan(&entry.ID)
	return mapPgError(err)
}

func (r *activityRepository) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	limit, offset = pageBounds(limit, offset)
	const query = `
        SELECT id, user_id, username, action, entity_type, entity_id, details, ip, created_at
        FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.IP, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *activityRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}
