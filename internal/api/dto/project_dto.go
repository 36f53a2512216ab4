package dto

import (
	"time"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// ProjectRequest payload for creating or replacing a project.
type ProjectRequest struct {
	Slug             string                 `json:"slug" validate:"omitempty,max=160"`
	Title            string                 `json:"title" validate:"required,max=200"`
	Summary          string                 `json:"summary" validate:"max=500"`
	Description      string                 `json:"description"`
	Category         domain.ProjectCategory `json:"category" validate:"omitempty,oneof=pos ecommerce marketing trading social analytics other"`
	TechStack        []string               `json:"tech_stack" validate:"max=30,dive,max=50"`
	DemoURL          string                 `json:"demo_url" validate:"omitempty,url"`
	RepoURL          string                 `json:"repo_url" validate:"omitempty,url"`
	ThumbnailMediaID *int64                 `json:"thumbnail_media_id"`
	Featured         bool                   `json:"featured"`
	Published        bool                   `json:"published"`
	SortOrder        int                    `json:"sort_order"`
}

// ProjectResponse is the JSON view of a project.
type ProjectResponse struct {
	ID               int64                  `json:"id"`
	Slug             string                 `json:"slug"`
	Title            string                 `json:"title"`
	Summary          string                 `json:"summary"`
	Description      string                 `json:"description"`
	Category         domain.ProjectCategory `json:"category"`
	TechStack        []string               `json:"tech_stack"`
	DemoURL          string                 `json:"demo_url,omitempty"`
	RepoURL          string                 `json:"repo_url,omitempty"`
	ThumbnailMediaID *int64                 `json:"thumbnail_media_id,omitempty"`
	Featured         bool                   `json:"featured"`
	Published        bool                   `json:"published"`
	SortOrder        int                    `json:"sort_order"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewProjectResponse maps a project.
func NewProjectResponse(p domain.Project) ProjectResponse {
	stack := p.TechStack
	if stack == nil {
		stack = []string{}
	}
	return ProjectResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		Summary:          p.Summary,
		Description:      p.Description,
		Category:         p.Category,
		TechStack:        stack,
		DemoURL:          p.DemoURL,
		RepoURL:          p.RepoURL,
		ThumbnailMediaID: p.ThumbnailMediaID,
		Featured:         p.Featured,
		Published:        p.Published,
		SortOrder:        p.SortOrder,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
