package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	"github.com/spec-kit/portfolio-cms/internal/persistence"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalog struct {
	Settings []struct {
		Key    string `yaml:"key"`
		Value  string `yaml:"value"`
		Public bool   `yaml:"public"`
	} `yaml:"settings"`
	Projects []struct {
		Slug        string   `yaml:"slug"`
		Title       string   `yaml:"title"`
		Summary     string   `yaml:"summary"`
		Description string   `yaml:"description"`
		Category    string   `yaml:"category"`
		TechStack   []string `yaml:"tech_stack"`
		DemoURL     string   `yaml:"demo_url"`
		RepoURL     string   `yaml:"repo_url"`
		Featured    bool     `yaml:"featured"`
		SortOrder   int      `yaml:"sort_order"`
	} `yaml:"projects"`
}

var seedActor = events.Actor{Username: "seed"}

func main() {
	drafts := flag.Bool("drafts", false, "seed projects unpublished")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := persistence.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	var data catalog
	if err := yaml.Unmarshal(defaultCatalog, &data); err != nil {
		logger.Fatal("parse catalog", zap.Error(err))
	}

	if cfg.Auth.AdminPassword == "" {
		logger.Warn("AUTH_ADMIN_PASSWORD not set, skipping admin account")
	} else {
		authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{Users: db.Store.Users, Logger: logger})
		user, created, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatal("ensure admin", zap.Error(err))
		}
		logger.Info("admin account", zap.String("username", user.Username), zap.Bool("created", created))
	}

	settings := service.NewSettingService(db.Store.Settings, nil, logger)
	for _, s := range data.Settings {
		if _, err := settings.Upsert(ctx, s.Key, s.Value, s.Public, seedActor); err != nil {
			logger.Fatal("seed setting", zap.String("key", s.Key), zap.Error(err))
		}
	}

	projects := service.NewProjectService(db.Store.Projects, db.Store.Media, nil, logger)
	created := 0
	for _, p := range data.Projects {
		if _, err := db.Store.Projects.GetBySlug(ctx, p.Slug); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			logger.Fatal("lookup project", zap.String("slug", p.Slug), zap.Error(err))
		}
		_, err := projects.Create(ctx, service.ProjectInput{
			Slug:        p.Slug,
			Title:       p.Title,
			Summary:     p.Summary,
			Description: p.Description,
			Category:    domain.ProjectCategory(p.Category),
			TechStack:   p.TechStack,
			DemoURL:     p.DemoURL,
			RepoURL:     p.RepoURL,
			Featured:    p.Featured,
			Published:   !*drafts,
			SortOrder:   p.SortOrder,
		}, seedActor)
		if err != nil {
			logger.Fatal("seed project", zap.String("slug", p.Slug), zap.Error(err))
		}
		created++
	}

	logger.Info("seed complete",
		zap.Int("settings", len(data.Settings)),
		zap.Int("projects_created", created))
}
