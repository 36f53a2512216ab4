package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/portfolio-cms/internal/api/http/handlers"
	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	Projects           *handlers.ProjectsHandler
	Media              *handlers.MediaHandler
	Settings           *handlers.SettingsHandler
	Users              *handlers.UsersHandler
	Activity           *handlers.ActivityHandler
	AuthMiddleware     *auth.Middleware
	Metrics            *observability.Metrics
	LoginRatePerMinute int
	MediaDir           string
	MediaURLPrefix     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	if cfg.MediaDir != "" && cfg.MediaURLPrefix != "" {
		app.Static(cfg.MediaURLPrefix, cfg.MediaDir, fiber.Static{ByteRange: true})
	}

	authenticate := cfg.AuthMiddleware.Handle
	throttle := rateLimitMiddleware(cfg.LoginRatePerMinute)

	api := app.Group("/api")

	api.Post("/auth/login", throttle, cfg.Auth.Login)
	api.Post("/auth/register", throttle, cfg.Auth.Register)
	api.Post("/auth/logout", cfg.Auth.Logout)
	api.Get("/auth/me", authenticate, cfg.Auth.Me)
	api.Post("/auth/password", authenticate, cfg.Auth.ChangePassword)

	api.Get("/projects", cfg.Projects.ListPublic)
	api.Get("/projects/:slug", cfg.Projects.GetPublic)
	api.Get("/settings", cfg.Settings.ListPublic)

	admin := api.Group("/admin", authenticate, auth.RequireAdmin())

	admin.Get("/projects", cfg.Projects.List)
	admin.Post("/projects", cfg.Projects.Create)
	admin.Get("/projects/:id", cfg.Projects.Get)
	admin.Put("/projects/:id", cfg.Projects.Update)
	admin.Delete("/projects/:id", cfg.Projects.Delete)

	admin.Get("/media", cfg.Media.List)
	admin.Post("/media", cfg.Media.Upload)
	admin.Delete("/media/:id", cfg.Media.Delete)

	admin.Get("/settings", cfg.Settings.List)
	admin.Get("/settings/export", cfg.Settings.Export)
	admin.Put("/settings/:key", cfg.Settings.Upsert)

	admin.Get("/users", cfg.Users.List)
	admin.Patch("/users/:id/role", cfg.Users.ChangeRole)

	admin.Get("/activity", cfg.Activity.List)
	admin.Get("/metrics", cfg.Activity.Metrics)
}
