package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

type sessionRepository struct {
	db dbtx
}

// NewSessionRepository constructs repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{db: conn(pool)}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO user_sessions (id, user_id, token_id, ip, user_agent, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.TokenID,
		session.IP,
		session.UserAgent,
		session.ExpiresAt,
	).Scan(&session.CreatedAt)
	return mapPgError(err)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
        SELECT id, user_id, token_id, ip, user_agent, created_at, expires_at
        FROM user_sessions WHERE id=$1`
	var s domain.Session
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.TokenID,
		&s.IP,
		&s.UserAgent,
		&s.CreatedAt,
		&s.ExpiresAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM user_sessions WHERE id=$1`
	_, err := r.db.Exec(ctx, query, id)
	return mapPgError(err)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM user_sessions WHERE expires_at < $1`
	cmd, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}
