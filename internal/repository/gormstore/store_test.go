package gormstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func TestUserRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	user := &domain.User{Username: "admin", Password: "secret", Role: domain.RoleAdmin}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.NotZero(t, user.ID)

	err := store.Users.Create(ctx, &domain.User{Username: "admin", Password: "x", Role: domain.RoleUser})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := store.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	require.NoError(t, store.Users.UpdateRole(ctx, user.ID, domain.RoleUser))
	require.NoError(t, store.Users.UpdatePassword(ctx, user.ID, "$2a$hash"))
	got, err = store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.Equal(t, "$2a$hash", got.Password)

	_, err = store.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Users.UpdateRole(ctx, 999, domain.RoleAdmin), repository.ErrNotFound)

	users, err := store.Users.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSessionRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	live := &domain.Session{ID: "live", UserID: 1, TokenID: "jti-1", ExpiresAt: now.Add(time.Hour)}
	stale := &domain.Session{ID: "stale", UserID: 1, TokenID: "jti-2", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, store.Sessions.Create(ctx, live))
	require.NoError(t, store.Sessions.Create(ctx, stale))

	removed, err := store.Sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	got, err := store.Sessions.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "jti-1", got.TokenID)

	require.NoError(t, store.Sessions.Delete(ctx, "live"))
	assert.ErrorIs(t, store.Sessions.Delete(ctx, "live"), repository.ErrNotFound)
}

func TestProjectRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	trading := domain.ProjectCategoryTrading
	projects := []*domain.Project{
		{Slug: "pos", Title: "POS", Category: domain.ProjectCategoryPOS, TechStack: []string{"react", "go"}, Published: true, SortOrder: 2},
		{Slug: "triarb", Title: "TriArb", Category: trading, Published: true, Featured: true, SortOrder: 1},
		{Slug: "draft", Title: "Draft", Category: trading},
	}
	for _, p := range projects {
		require.NoError(t, store.Projects.Create(ctx, p))
	}

	published, err := store.Projects.List(ctx, domain.ProjectFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "triarb", published[0].Slug)

	byCategory, err := store.Projects.List(ctx, domain.ProjectFilter{Category: &trading})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	pos, err := store.Projects.GetBySlug(ctx, "pos")
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "go"}, pos.TechStack)

	pos.Title = "Point of Sale"
	pos.Published = false
	require.NoError(t, store.Projects.Update(ctx, pos))
	got, err := store.Projects.GetByID(ctx, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, "Point of Sale", got.Title)
	assert.False(t, got.Published)

	dup := &domain.Project{Slug: "pos", Title: "again", Category: domain.ProjectCategoryOther}
	assert.ErrorIs(t, store.Projects.Create(ctx, dup), repository.ErrConflict)

	require.NoError(t, store.Projects.Delete(ctx, pos.ID))
	assert.ErrorIs(t, store.Projects.Delete(ctx, pos.ID), repository.ErrNotFound)
}

func TestSettingRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Settings.Upsert(ctx, &domain.Setting{Key: "site.title", Value: "Portfolio", Public: true}))
	require.NoError(t, store.Settings.Upsert(ctx, &domain.Setting{Key: "smtp.host", Value: "mail"}))
	require.NoError(t, store.Settings.Upsert(ctx, &domain.Setting{Key: "site.title", Value: "Demos", Public: true}))

	all, err := store.Settings.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := store.Settings.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Demos", public[0].Value)
}

func TestActivityRepositoryPrune(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	old := &domain.ActivityLog{Action: "user.logged_in", CreatedAt: now.Add(-48 * time.Hour)}
	recent := &domain.ActivityLog{Action: "project.created", Details: map[string]any{"slug": "pos"}, CreatedAt: now}
	require.NoError(t, store.Activities.Create(ctx, old))
	require.NoError(t, store.Activities.Create(ctx, recent))

	removed, err := store.Activities.DeleteBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	entries, err := store.Activities.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pos", entries[0].Details["slug"])
}

func TestMediaRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := &domain.Media{FileName: "a.png", OriginalName: "logo.png", MimeType: "image/png", SizeBytes: 10, URL: "/uploads/a.png"}
	require.NoError(t, store.Media.Create(ctx, m))
	got, err := store.Media.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", got.OriginalName)

	list, err := store.Media.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Media.Delete(ctx, m.ID))
	_, err = store.Media.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
