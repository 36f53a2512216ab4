package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	"github.com/spec-kit/portfolio-cms/internal/repository/gormstore"
)

// Database is the storage backend selected by DB_DRIVER.
type Database struct {
	Driver   string
	Postgres *Postgres
	SQL      *gorm.DB
	Store    *repository.Store
}

// OpenDatabase connects the configured driver and builds the repositories.
// Postgres without a DSN yields a store whose calls fail with
// repository.ErrNoDatabase.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Database, error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := gormstore.Open(cfg.SQLite.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to sqlite", zap.String("dsn", cfg.SQLite.DSN))
		return &Database{Driver: config.DriverSQLite, SQL: db, Store: gormstore.NewStore(db)}, nil
	case config.DriverPostgres, "":
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Database{Driver: config.DriverPostgres, Postgres: pg, Store: repository.NewPostgresStore(pg.PoolHandle())}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}
}

// Ping checks the active backend.
func (d *Database) Ping(ctx context.Context) error {
	if d == nil {
		return fmt.Errorf("database not initialised")
	}
	if d.SQL != nil {
		sqlDB, err := d.SQL.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return d.Postgres.Ping(ctx)
}

// Close releases connections.
func (d *Database) Close() {
	if d == nil {
		return
	}
	if d.SQL != nil {
		if sqlDB, err := d.SQL.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	d.Postgres.Close()
}
