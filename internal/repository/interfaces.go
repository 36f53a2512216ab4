package repository

import (
	"context"
	"time"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
}

// SessionRepository persists server-side login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ProjectRepository manages portfolio projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
}

// MediaRepository manages uploaded asset metadata.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	GetByID(ctx context.Context, id int64) (*domain.Media, error)
	List(ctx context.Context, limit, offset int) ([]domain.Media, error)
	Delete(ctx context.Context, id int64) error
}

// SettingRepository manages site settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	List(ctx context.Context, publicOnly bool) ([]domain.Setting, error)
	Upsert(ctx context.Context, setting *domain.Setting) error
}

// ActivityRepository stores the admin activity log.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// Store groups every repository behind one storage backend.
type Store struct {
	Users      UserRepository
	Sessions   SessionRepository
	Projects   ProjectRepository
	Media      MediaRepository
	Settings   SettingRepository
	Activities ActivityRepository
}
