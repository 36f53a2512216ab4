package service

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	Slug             string
	Title            string
	Summary          string
	Description      string
	Category         domain.ProjectCategory
	TechStack        []string
	DemoURL          string
	RepoURL          string
	ThumbnailMediaID *int64
	Featured         bool
	Published        bool
	SortOrder        int
}

// ProjectService manages the portfolio catalog.
type ProjectService struct {
	projects   repository.ProjectRepository
	media      repository.MediaRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewProjectService builds the service.
func NewProjectService(projects repository.ProjectRepository, media repository.MediaRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{projects: projects, media: media, dispatcher: dispatcher, logger: logger}
}

// ListPublished returns the public catalog.
func (s *ProjectService) ListPublished(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	filter.PublishedOnly = true
	return s.List(ctx, filter)
}

// List returns projects matching filter.
func (s *ProjectService) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	if filter.Category != nil && !ValidCategory(*filter.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *filter.Category})
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// GetPublished returns a published project by slug. Drafts are reported as missing.
func (s *ProjectService) GetPublished(ctx context.Context, slug string) (*domain.Project, error) {
	project, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "project", map[string]any{"slug": slug})
	}
	if !project.Published {
		return nil, apperrors.NewNotFound("project", map[string]any{"slug": slug})
	}
	return project, nil
}

// Get returns any project by id.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "project", map[string]any{"id": id})
	}
	return project, nil
}

// Create validates input and stores a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput, actor events.Actor) (*domain.Project, error) {
	project := &domain.Project{}
	if err := s.apply(ctx, project, input); err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, s.writeError(err, project.Slug)
	}
	s.publish(ctx, events.EventProjectCreated, project, actor)
	return project, nil
}

// Update replaces the editable fields of project id.
func (s *ProjectService) Update(ctx context.Context, id int64, input ProjectInput, actor events.Actor) (*domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, project, input); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return nil, s.writeError(err, project.Slug)
	}
	s.publish(ctx, events.EventProjectUpdated, project, actor)
	return project, nil
}

// Delete removes project id.
func (s *ProjectService) Delete(ctx context.Context, id int64, actor events.Actor) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return notFoundOr(err, "project", map[string]any{"id": id})
	}
	s.publish(ctx, events.EventProjectDeleted, project, actor)
	return nil
}

func (s *ProjectService) apply(ctx context.Context, project *domain.Project, input ProjectInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugPattern.MatchString(slug) {
		return apperrors.NewValidationError("slug must contain lowercase letters, digits and dashes", map[string]any{"slug": slug})
	}
	category := input.Category
	if category == "" {
		category = domain.ProjectCategoryOther
	}
	if !ValidCategory(category) {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	for field, raw := range map[string]string{"demo_url": input.DemoURL, "repo_url": input.RepoURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "") {
			return apperrors.NewValidationError("invalid url", map[string]any{"field": field})
		}
	}
	if input.ThumbnailMediaID != nil {
		if _, err := s.media.GetByID(ctx, *input.ThumbnailMediaID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewValidationError("thumbnail media does not exist", map[string]any{"thumbnail_media_id": *input.ThumbnailMediaID})
			}
			return apperrors.NewInternalError(err)
		}
	}

	stack := make([]string, 0, len(input.TechStack))
	for _, item := range input.TechStack {
		if item = strings.TrimSpace(item); item != "" {
			stack = append(stack, item)
		}
	}

	project.Slug = slug
	project.Title = title
	project.Summary = strings.TrimSpace(input.Summary)
	project.Description = input.Description
	project.Category = category
	project.TechStack = stack
	project.DemoURL = input.DemoURL
	project.RepoURL = input.RepoURL
	project.ThumbnailMediaID = input.ThumbnailMediaID
	project.Featured = input.Featured
	project.Published = input.Published
	project.SortOrder = input.SortOrder
	return nil
}

func (s *ProjectService) writeError(err error, slug string) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewConflict("slug already in use", map[string]any{"slug": slug})
	}
	return apperrors.NewInternalError(err)
}

func (s *ProjectService) publish(ctx context.Context, eventType events.EventType, project *domain.Project, actor events.Actor) {
	emit(ctx, s.dispatcher, s.logger, events.Event{
		Type:       eventType,
		Actor:      actor,
		EntityType: "project",
		EntityID:   strconv.FormatInt(project.ID, 10),
		Payload:    map[string]any{"slug": project.Slug, "title": project.Title},
	})
}

// ValidCategory reports whether c is a known project category.
func ValidCategory(c domain.ProjectCategory) bool {
	switch c {
	case domain.ProjectCategoryPOS,
		domain.ProjectCategoryECommerce,
		domain.ProjectCategoryMarketing,
		domain.ProjectCategoryTrading,
		domain.ProjectCategorySocial,
		domain.ProjectCategoryAnalytics,
		domain.ProjectCategoryOther:
		return true
	}
	return false
}

// Slugify derives a URL slug from a title: "dYdX Trading UI" -> "dydx-trading-ui".
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func notFoundOr(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.NewInternalError(err)
}
