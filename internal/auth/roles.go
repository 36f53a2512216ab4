package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// RequireAdmin rejects callers whose role is not admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(MsgAuthenticationRequired)
		}
		if !identity.IsAdmin() {
			return apperrors.NewForbidden(MsgAdminRequired)
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures an identity is attached.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized(MsgAuthenticationRequired)
		}
		return c.Next()
	}
}
