package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	"github.com/spec-kit/portfolio-cms/internal/persistence"
	"github.com/spec-kit/portfolio-cms/internal/service"
	"github.com/spec-kit/portfolio-cms/internal/worker"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	activity := service.NewActivityService(db.Store.Activities, logger)
	housekeeper := worker.NewHousekeeper(db.Store.Sessions, activity, cfg.Activity.Retention, logger.Named("housekeeping"))

	w, err := worker.New(worker.Config{
		RedisOpts: persistence.AsynqOpt(cfg.Redis),
		Handlers:  housekeeper.Handlers(),
		Cron: []worker.CronRegistration{
			{Spec: cfg.Session.CleanupSchedule, Task: worker.NewSessionCleanupTask()},
			{Spec: cfg.Activity.PruneSchedule, Task: worker.NewActivityPruneTask()},
		},
		Logger: logger.Named("worker"),
	})
	if err != nil {
		logger.Fatal("failed to configure worker", zap.Error(err))
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
