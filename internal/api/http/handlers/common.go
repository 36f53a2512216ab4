package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/service"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// pwbytes bounds a password by bcrypt's byte limit; max counts runes.
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})
	return v
}

// bindJSON decodes the body into out and validates it.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]any, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
			return apperrors.NewValidationError("validation failed", details)
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func pagination(c *fiber.Ctx) (int, int) {
	return c.QueryInt("limit", 50), c.QueryInt("offset", 0)
}

func actorFrom(c *fiber.Ctx) events.Actor {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return events.ActorFromIdentity(identity, c.IP())
	}
	return events.Actor{IP: c.IP()}
}

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}
