package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/service"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// MediaHandler manages uploads from the admin panel.
type MediaHandler struct {
	service  *service.MediaService
	maxBytes int64
}

// NewMediaHandler constructs handler.
func NewMediaHandler(mediaService *service.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{service: mediaService, maxBytes: maxBytes}
}

// Upload POST /api/admin/media (multipart field "file", optional "alt_text").
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return apperrors.NewValidationError("file too large", map[string]any{"max_bytes": h.maxBytes})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	media, err := h.service.Upload(c.UserContext(), service.UploadInput{
		OriginalName: header.Filename,
		AltText:      c.FormValue("alt_text"),
		Content:      file,
	}, actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMediaResponse(*media)})
}

// List GET /api/admin/media.
func (h *MediaHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	items, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	data := make([]dto.MediaResponse, 0, len(items))
	for _, m := range items {
		data = append(data, dto.NewMediaResponse(m))
	}
	return c.JSON(fiber.Map{"data": data})
}

// Delete DELETE /api/admin/media/:id.
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
