package gormstore

import (
	"time"

	"gorm.io/datatypes"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// userModel mirrors the users table.
type userModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"size:100;uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"size:20;not null;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		Role:      domain.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type sessionModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    int64  `gorm:"index;not null"`
	TokenID   string `gorm:"size:64;index"`
	IP        string `gorm:"size:64"`
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (sessionModel) TableName() string { return "user_sessions" }

func (m sessionModel) toDomain() *domain.Session {
	return &domain.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenID:   m.TokenID,
		IP:        m.IP,
		UserAgent: m.UserAgent,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

type projectModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Slug             string `gorm:"size:160;uniqueIndex;not null"`
	Title            string `gorm:"size:200;not null"`
	Summary          string
	Description      string
	Category         string                     `gorm:"size:40;index"`
	TechStack        datatypes.JSONSlice[string] `gorm:"type:json"`
	DemoURL          string
	RepoURL          string
	ThumbnailMediaID *int64
	Featured         bool
	Published        bool `gorm:"index"`
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (projectModel) TableName() string { return "projects" }

func newProjectModel(p *domain.Project) projectModel {
	stack := p.TechStack
	if stack == nil {
		stack = []string{}
	}
	return projectModel{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		Summary:          p.Summary,
		Description:      p.Description,
		Category:         string(p.Category),
		TechStack:        datatypes.NewJSONSlice(stack),
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

func (m projectModel) toDomain() domain.Project {
	return domain.Project{
		ID:               m.ID,
		Slug:             m.Slug,
		Title:            m.Title,
		Summary:          m.Summary,
		Description:      m.Description,
		Category:         domain.ProjectCategory(m.Category),
		TechStack:        []string(m.TechStack),
		DemoURL:          m.DemoURL,
		RepoURL:          m.RepoURL,
		ThumbnailMediaID: m.ThumbnailMediaID,
		Featured:         m.Featured,
		Published:        m.Published,
		SortOrder:        m.SortOrder,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type mediaModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FileName     string `gorm:"size:255;uniqueIndex;not null"`
	OriginalName string
	MimeType     string `gorm:"size:100"`
	SizeBytes    int64
	URL          string
	AltText      string
	UploadedBy   *int64
	CreatedAt    time.Time
}

func (mediaModel) TableName() string { return "media" }

func (m mediaModel) toDomain() domain.Media {
	return domain.Media{
		ID:           m.ID,
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		URL:          m.URL,
		AltText:      m.AltText,
		UploadedBy:   m.UploadedBy,
		CreatedAt:    m.CreatedAt,
	}
}

type settingModel struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string
	Public    bool `gorm:"column:is_public"`
	UpdatedBy *int64
	UpdatedAt time.Time
}

func (settingModel) TableName() string { return "site_settings" }

func (m settingModel) toDomain() domain.Setting {
	return domain.Setting{
		Key:       m.Key,
		Value:     m.Value,
		Public:    m.Public,
		UpdatedBy: m.UpdatedBy,
		UpdatedAt: m.UpdatedAt,
	}
}

type activityModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	UserID     *int64
	Username   string
	Action     string `gorm:"size:64;index"`
	EntityType string `gorm:"size:64"`
	EntityID   string `gorm:"size:64"`
	Details    datatypes.JSONMap
	IP         string
	CreatedAt  time.Time `gorm:"index"`
}

func (activityModel) TableName() string { return "activity_logs" }

func (m activityModel) toDomain() domain.ActivityLog {
	return domain.ActivityLog{
		ID:         m.ID,
		UserID:     m.UserID,
		Username:   m.Username,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Details:    map[string]any(m.Details),
		IP:         m.IP,
		CreatedAt:  m.CreatedAt,
	}
}

// Models lists every table managed by the store, in migration order.
func Models() []any {
	return []any{
		&userModel{},
		&sessionModel{},
		&mediaModel{},
		&projectModel{},
		&settingModel{},
		&activityModel{},
	}
}
