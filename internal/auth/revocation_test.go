package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocationStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisRevocationStore(client, "", time.Minute)
	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "jti-1", "")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("auth:revoked:jti-1"))
	assert.InDelta(t, (time.Hour + time.Minute).Seconds(), mr.TTL("auth:revoked:jti-1").Seconds(), 5)

	revoked, err = store.IsRevoked(ctx, "jti-2", "")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1", "")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Error(t, store.Revoke(ctx, "", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "stale", time.Now().Add(-2*time.Hour)))
	assert.False(t, mr.Exists("auth:revoked:stale"))
}

func TestRedisRevocationStoreSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewRedisRevocationStore(client, "test:revoked:", 0).WithClock(func() time.Time { return now })
	require.NoError(t, store.RevokeSession(ctx, "sid-1", now.Add(24*time.Hour)))

	assert.True(t, mr.Exists("test:revoked:session:sid-1"))
	assert.InDelta(t, (24 * time.Hour).Seconds(), mr.TTL("test:revoked:session:sid-1").Seconds(), 1)

	revoked, err := store.IsRevoked(ctx, "any-jti", "sid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "any-jti", "sid-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Error(t, store.RevokeSession(ctx, "", now.Add(time.Hour)))
}
