package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-cms/internal/api/dto"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/service"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// ProjectsHandler serves the public catalog and the admin project editor.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// ListPublic GET /api/projects.
func (h *ProjectsHandler) ListPublic(c *fiber.Ctx) error {
	filter, err := parseProjectFilter(c)
	if err != nil {
		return err
	}
	projects, err := h.service.ListPublished(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponses(projects)})
}

// GetPublic GET /api/projects/:slug.
func (h *ProjectsHandler) GetPublic(c *fiber.Ctx) error {
	project, err := h.service.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(*project)})
}

// List GET /api/admin/projects. Drafts are included unless ?published=true.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	filter, err := parseProjectFilter(c)
	if err != nil {
		return err
	}
	filter.PublishedOnly = c.QueryBool("published", false)
	projects, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponses(projects)})
}

// Get GET /api/admin/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	project, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(*project)})
}

// Create POST /api/admin/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	project, err := h.service.Create(c.UserContext(), projectInput(req), actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(*project)})
}

// Update PUT /api/admin/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	project, err := h.service.Update(c.UserContext(), id, projectInput(req), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(*project)})
}

// Delete DELETE /api/admin/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseProjectFilter(c *fiber.Ctx) (domain.ProjectFilter, error) {
	limit, offset := pagination(c)
	filter := domain.ProjectFilter{Limit: limit, Offset: offset}
	if raw := c.Query("category"); raw != "" {
		category := domain.ProjectCategory(raw)
		filter.Category = &category
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("featured must be a boolean", nil)
		}
		filter.Featured = &featured
	}
	return filter, nil
}

func projectInput(req dto.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		Slug:             req.Slug,
		Title:            req.Title,
		Summary:          req.Summary,
		Description:      req.Description,
		Category:         req.Category,
		TechStack:        req.TechStack,
		DemoURL:          req.DemoURL,
		RepoURL:          req.RepoURL,
		ThumbnailMediaID: req.ThumbnailMediaID,
		Featured:         req.Featured,
		Published:        req.Published,
		SortOrder:        req.SortOrder,
	}
}

func projectResponses(projects []domain.Project) []dto.ProjectResponse {
	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, dto.NewProjectResponse(p))
	}
	return items
}
