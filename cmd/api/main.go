package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/api/http/handlers"
	"github.com/spec-kit/portfolio-cms/internal/app"
	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	"github.com/spec-kit/portfolio-cms/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	server, err := app.New(cfg, app.Dependencies{
		Store:  db.Store,
		Redis:  redis.Client,
		Checks: map[string]handlers.Pinger{"database": db, "redis": redis},
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	if err := server.BootstrapAdmin(ctx, cfg.Auth); err != nil {
		logger.Warn("admin bootstrap failed", zap.Error(err))
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("profile", cfg.Profile().Name),
			zap.String("db_driver", db.Driver))
		if err := server.App.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
