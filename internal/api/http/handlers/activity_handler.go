package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

// ActivityHandler serves the audit log and runtime counters to admins.
type ActivityHandler struct {
	activity *service.ActivityService
	metrics  *observability.Metrics
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activity *service.ActivityService, metrics *observability.Metrics) *ActivityHandler {
	return &ActivityHandler{activity: activity, metrics: metrics}
}

// List GET /api/admin/activity.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	entries, err := h.activity.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	data := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, dto.NewActivityResponse(e))
	}
	return c.JSON(fiber.Map{"data": data})
}

// Metrics GET /api/admin/metrics.
func (h *ActivityHandler) Metrics(c *fiber.Ctx) error {
	if h.metrics == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{}})
	}
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
