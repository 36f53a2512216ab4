package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/service"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// AuthHandler exposes login, registration, logout and account endpoints.
type AuthHandler struct {
	auth          *service.AuthService
	middleware    *auth.Middleware
	tokenCookie   auth.CookieWriter
	sessionCookie auth.CookieWriter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, middleware *auth.Middleware, tokenCookie, sessionCookie auth.CookieWriter) *AuthHandler {
	return &AuthHandler{
		auth:          authService,
		middleware:    middleware,
		tokenCookie:   tokenCookie,
		sessionCookie: sessionCookie,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password, clientInfo(c))
	if err != nil {
		return err
	}
	return h.respondWithSession(c, http.StatusOK, result)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Register(c.UserContext(), req.Username, req.Password, clientInfo(c))
	if err != nil {
		return err
	}
	return h.respondWithSession(c, http.StatusCreated, result)
}

// Logout handles POST /api/auth/logout. It succeeds without a valid token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, _ := h.middleware.Inspect(c)
	h.auth.Logout(c.UserContext(), claims, c.Cookies(h.sessionCookie.Name), clientInfo(c))
	h.tokenCookie.Clear(c)
	h.sessionCookie.Clear(c)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.MsgAuthenticationRequired)
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(identity)})
}

// ChangePassword handles POST /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.MsgAuthenticationRequired)
	}
	var req dto.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), identity, req.CurrentPassword, req.NewPassword, clientInfo(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) respondWithSession(c *fiber.Ctx, status int, result *service.LoginResult) error {
	h.tokenCookie.Set(c, result.Token, result.ExpiresAt)
	if result.SessionID != "" {
		h.sessionCookie.Set(c, result.SessionID, result.ExpiresAt)
	}
	user := domain.Identity{ID: result.User.ID, Username: result.User.Username, Role: result.User.Role}
	return c.Status(status).JSON(dto.LoginResponse{
		Success:   true,
		User:      dto.NewUserResponse(user),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}
