package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/service"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// UsersHandler exposes account administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /api/admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	users, err := h.users.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	data := make([]dto.UserDetail, 0, len(users))
	for _, u := range users {
		data = append(data, dto.NewUserDetail(u))
	}
	return c.JSON(fiber.Map{"data": data})
}

// ChangeRole PATCH /api/admin/users/:id/role.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.MsgAuthenticationRequired)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.RoleChangeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.ChangeRole(c.UserContext(), id, req.Role, identity, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserDetail(*user)})
}
