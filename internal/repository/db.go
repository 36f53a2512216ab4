package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the subset of pgxpool.Pool used by the repositories.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn returns the pool, or a stand-in failing every call with ErrNoDatabase
// when the service started without a DSN.
func conn(pool *pgxpool.Pool) dbtx {
	if pool == nil {
		return offlineDB{}
	}
	return pool
}

type offlineDB struct{}

func (offlineDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrNoDatabase
}

func (offlineDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrNoDatabase
}

func (offlineDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: ErrNoDatabase}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// NewPostgresStore wires every Postgres-backed repository to one pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:      NewUserRepository(pool),
		Sessions:   NewSessionRepository(pool),
		Projects:   NewProjectRepository(pool),
		Media:      NewMediaRepository(pool),
		Settings:   NewSettingRepository(pool),
		Activities: NewActivityRepository(pool),
	}
}
