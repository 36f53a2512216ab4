// Package app assembles the HTTP service from configuration and storage.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/portfolio-cms/internal/api/http"
	"github.com/spec-kit/portfolio-cms/internal/api/http/handlers"
	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	"github.com/spec-kit/portfolio-cms/internal/service"
	"github.com/spec-kit/portfolio-cms/internal/worker"
)

// Dependencies are the externally owned resources the service runs on.
type Dependencies struct {
	Store  *repository.Store
	Redis  *redis.Client
	Checks map[string]handlers.Pinger
	Logger *zap.Logger
	// Clock overrides time.Now for token issue, refresh decisions and revocation TTLs.
	Clock func() time.Time
}

// Server is the assembled HTTP service.
type Server struct {
	App        *fiber.App
	Auth       *service.AuthService
	Codec      *auth.TokenCodec
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	logger     *zap.Logger
}

// New wires repositories, services, handlers and routes.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("app: store required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	profile := cfg.Profile()
	metrics := observability.NewMetrics()
	dispatcher := events.NewDispatcher(logger.Named("events"))

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, profile.TokenLifetime).WithClock(now)
	var revocations auth.RevocationStore
	if deps.Redis != nil {
		revocations = auth.NewRedisRevocationStore(deps.Redis, cfg.Session.RevocationKey, cfg.Session.RevocationGrace).WithClock(now)
	}
	tokenCookie := auth.CookieWriter{Name: cfg.Auth.CookieName, Secure: profile.CookieSecure, MaxAge: profile.TokenLifetime}
	sessionCookie := auth.CookieWriter{Name: cfg.Session.CookieName, Secure: profile.CookieSecure, MaxAge: profile.TokenLifetime}

	continuity := auth.NewContinuityPolicy(profile.TokenLifetime, profile.RefreshThreshold)
	continuity.Now = now

	middleware := auth.NewMiddleware(auth.MiddlewareDeps{
		Locator:       auth.CredentialLocator{CookieName: cfg.Auth.CookieName, QueryParam: cfg.Auth.QueryParam},
		Codec:         codec,
		Resolver:      auth.NewIdentityResolver(deps.Store.Users, logger.Named("auth")),
		Continuity:    continuity,
		Fallback:      auth.NewFallbackPolicy(cfg.Auth),
		Revocations:   revocations,
		TokenCookie:   tokenCookie,
		RefreshHeader: cfg.Auth.RefreshHeader,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger.Named("auth"),
	})

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:       deps.Store.Users,
		Sessions:    deps.Store.Sessions,
		Codec:       codec,
		Revocations: revocations,
		Dispatcher:  dispatcher,
		Logger:      logger.Named("auth"),
	})
	projectService := service.NewProjectService(deps.Store.Projects, deps.Store.Media, dispatcher, logger)
	mediaService := service.NewMediaService(deps.Store.Media, cfg.Media, dispatcher, logger)
	settingService := service.NewSettingService(deps.Store.Settings, dispatcher, logger)
	userService := service.NewUserService(deps.Store.Users, dispatcher, logger)
	activityService := service.NewActivityService(deps.Store.Activities, logger)

	if err := worker.StartActivityRecorder(dispatcher, activityService); err != nil {
		return nil, err
	}

	app := httptransport.NewApp(httptransport.ServerConfig{
		Name:      cfg.App.Name,
		BodyLimit: int(cfg.Media.MaxBytes) + 1<<20,
	}, logger)
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins(),
		RefreshHeader:  cfg.Auth.RefreshHeader,
		Production:     cfg.App.IsProduction(),
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Checks),
		Auth:               handlers.NewAuthHandler(authService, middleware, tokenCookie, sessionCookie),
		Projects:           handlers.NewProjectsHandler(projectService),
		Media:              handlers.NewMediaHandler(mediaService, cfg.Media.MaxBytes),
		Settings:           handlers.NewSettingsHandler(settingService),
		Users:              handlers.NewUsersHandler(userService),
		Activity:           handlers.NewActivityHandler(activityService, metrics),
		AuthMiddleware:     middleware,
		Metrics:            metrics,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMin,
		MediaDir:           cfg.Media.Dir,
		MediaURLPrefix:     cfg.Media.URLPrefix,
	})

	return &Server{
		App:        app,
		Auth:       authService,
		Codec:      codec,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// BootstrapAdmin ensures the configured admin account exists.
func (s *Server) BootstrapAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	user, created, err := s.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("admin account created", zap.String("username", user.Username))
	}
	return nil
}

// Shutdown stops accepting requests and drains event handlers.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.App.ShutdownWithTimeout(timeout)
	s.Dispatcher.Wait()
	return err
}
