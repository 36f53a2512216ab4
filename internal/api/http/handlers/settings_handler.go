package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

// SettingsHandler exposes site settings.
type SettingsHandler struct {
	service *service.SettingService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingService *service.SettingService) *SettingsHandler {
	return &SettingsHandler{service: settingService}
}

// ListPublic GET /api/settings.
func (h *SettingsHandler) ListPublic(c *fiber.Ctx) error {
	return h.list(c, true)
}

// List GET /api/admin/settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

// Upsert PUT /api/admin/settings/:key.
func (h *SettingsHandler) Upsert(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	setting, err := h.service.Upsert(c.UserContext(), c.Params("key"), req.Value, req.Public, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettingResponse(*setting)})
}

// Export GET /api/admin/settings/export.
func (h *SettingsHandler) Export(c *fiber.Ctx) error {
	out, err := h.service.ExportYAML(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/yaml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="settings.yaml"`)
	return c.Send(out)
}

func (h *SettingsHandler) list(c *fiber.Ctx, publicOnly bool) error {
	settings, err := h.service.List(c.UserContext(), publicOnly)
	if err != nil {
		return err
	}
	if publicOnly {
		return c.JSON(fiber.Map{"data": settingsMap(settings)})
	}
	data := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		data = append(data, dto.NewSettingResponse(s))
	}
	return c.JSON(fiber.Map{"data": data})
}

// settingsMap flattens public settings into key/value pairs for the site frontend.
func settingsMap(settings []domain.Setting) map[string]string {
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out
}
