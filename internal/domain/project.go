package domain

import "time"

// ProjectCategory groups demo applications in the public catalog.
type ProjectCategory string

const (
	ProjectCategoryPOS       ProjectCategory = "pos"
	ProjectCategoryECommerce ProjectCategory = "ecommerce"
	ProjectCategoryMarketing ProjectCategory = "marketing"
	ProjectCategoryTrading   ProjectCategory = "trading"
	ProjectCategorySocial    ProjectCategory = "social"
	ProjectCategoryAnalytics ProjectCategory = "analytics"
	ProjectCategoryOther     ProjectCategory = "other"
)

// Project is a portfolio entry linking to a demo application.
type Project struct {
	ID               int64
	Slug             string
	Title            string
	Summary          string
	Description      string
	Category         ProjectCategory
	TechStack        []string
	DemoURL          string
	RepoURL          string
	ThumbnailMediaID *int64
	Featured         bool
	Published        bool
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	PublishedOnly bool
	Category      *ProjectCategory
	Featured      *bool
	Limit         int
	Offset        int
}
