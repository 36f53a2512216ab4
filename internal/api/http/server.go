package http

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// ServerConfig sets fiber application limits.
type ServerConfig struct {
	Name         string
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber application with the sonic JSON codec. Errors
// raised before the middleware chain runs, such as an oversized body, are
// rendered with the same envelope as handler errors.
func NewApp(cfg ServerConfig, logger *zap.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}
	return fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             bodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			var fiberErr *fiber.Error
			if domainErr.HTTPStatus >= 500 && !errors.As(err, &fiberErr) {
				logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(domainErr.HTTPStatus).JSON(domainErr.Body())
		},
	})
}
