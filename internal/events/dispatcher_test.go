package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewDispatcher(nil)

	var mu sync.Mutex
	var got []Event
	require.NoError(t, d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
		return nil
	}))

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventProjectCreated, EntityID: "7"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventMediaUploaded, EntityID: "9"}))
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].EntityID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestDispatcherDetachesCancellation(t *testing.T) {
	d := NewDispatcher(nil)

	errCh := make(chan error, 1)
	require.NoError(t, d.Subscribe(EventUserLoggedIn, func(ctx context.Context, _ Event) error {
		errCh <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Publish(ctx, Event{Type: EventUserLoggedIn}))
	d.Wait()

	assert.NoError(t, <-errCh)
}

func TestDispatcherSurvivesFailingHandlers(t *testing.T) {
	d := NewDispatcher(nil)

	calls := make(chan struct{}, 2)
	require.NoError(t, d.Subscribe(EventSettingUpdated, func(context.Context, Event) error {
		calls <- struct{}{}
		return errors.New("boom")
	}))
	require.NoError(t, d.Subscribe(EventSettingUpdated, func(context.Context, Event) error {
		calls <- struct{}{}
		panic("handler bug")
	}))

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSettingUpdated}))
	d.Wait()
	assert.Len(t, calls, 2)
}
