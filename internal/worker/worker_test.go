package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	"github.com/spec-kit/portfolio-cms/internal/repository/gormstore"
	"github.com/spec-kit/portfolio-cms/internal/service"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gormstore.Open(fmt.Sprintf("file:worker-%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)
	return gormstore.NewStore(db)
}

func TestActivityRecorderPersistsEvents(t *testing.T) {
	store := newStore(t)
	dispatcher := events.NewDispatcher(zap.NewNop())
	activity := service.NewActivityService(store.Activities, zap.NewNop())
	require.NoError(t, StartActivityRecorder(dispatcher, activity))

	id := int64(1)
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventProjectCreated,
		Actor:      events.Actor{UserID: &id, Username: "admin", IP: "10.0.0.1"},
		EntityType: "project",
		EntityID:   "3",
		Payload:    map[string]any{"slug": "pos"},
	}))
	dispatcher.Wait()

	entries, err := activity.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "project.created", entries[0].Action)
	assert.Equal(t, "admin", entries[0].Username)
	assert.Equal(t, "10.0.0.1", entries[0].IP)
}

func TestHousekeeperTasks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.Sessions.Create(ctx, &domain.Session{ID: "old", UserID: 1, TokenID: "a", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Sessions.Create(ctx, &domain.Session{ID: "new", UserID: 1, TokenID: "b", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Activities.Create(ctx, &domain.ActivityLog{Action: "user.logged_in", CreatedAt: now.Add(-100 * 24 * time.Hour)}))
	require.NoError(t, store.Activities.Create(ctx, &domain.ActivityLog{Action: "user.logged_in", CreatedAt: now}))

	activity := service.NewActivityService(store.Activities, zap.NewNop())
	h := NewHousekeeper(store.Sessions, activity, 90*24*time.Hour, zap.NewNop())

	require.NoError(t, h.HandleSessionCleanup(ctx, NewSessionCleanupTask()))
	_, err := store.Sessions.Get(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Sessions.Get(ctx, "new")
	assert.NoError(t, err)

	require.NoError(t, h.HandleActivityPrune(ctx, NewActivityPruneTask()))
	entries, err := store.Activities.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	types := map[string]bool{}
	for _, handler := range h.Handlers() {
		types[handler.Type] = true
	}
	assert.True(t, types[TaskSessionCleanup])
	assert.True(t, types[TaskActivityPrune])
}
