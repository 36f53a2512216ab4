package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks token ids and sessions invalidated before their
// natural expiry. Revoking a session invalidates every token issued for it,
// including silently reissued ones.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	RevokeSession(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID, sessionID string) (bool, error)
}

// RedisRevocationStore keeps one key per revoked token id or session,
// expiring with the last token that could carry it.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
	grace  time.Duration
	now    func() time.Time
}

// NewRedisRevocationStore builds a store. grace extends each key past the
// token expiry to absorb clock skew between instances.
func NewRedisRevocationStore(client *redis.Client, prefix string, grace time.Duration) *RedisRevocationStore {
	if prefix == "" {
		prefix = "auth:revoked:"
	}
	return &RedisRevocationStore{client: client, prefix: prefix, grace: grace, now: time.Now}
}

// WithClock replaces the time source used to compute key TTLs.
func (s *RedisRevocationStore) WithClock(now func() time.Time) *RedisRevocationStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Revoke marks tokenID revoked until the given instant.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return errors.New("token id required")
	}
	return s.set(ctx, s.tokenKey(tokenID), until)
}

// RevokeSession marks every token of sessionID revoked until the given instant.
func (s *RedisRevocationStore) RevokeSession(ctx context.Context, sessionID string, until time.Time) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	return s.set(ctx, s.sessionKey(sessionID), until)
}

// IsRevoked reports whether tokenID or its session has been revoked. Empty
// ids are ignored.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID, sessionID string) (bool, error) {
	keys := make([]string, 0, 2)
	if tokenID != "" {
		keys = append(keys, s.tokenKey(tokenID))
	}
	if sessionID != "" {
		keys = append(keys, s.sessionKey(sessionID))
	}
	if len(keys) == 0 {
		return false, nil
	}
	n, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) set(ctx context.Context, key string, until time.Time) error {
	ttl := until.Sub(s.now()) + s.grace
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, key, "1", ttl).Err()
}

func (s *RedisRevocationStore) tokenKey(tokenID string) string {
	return s.prefix + tokenID
}

func (s *RedisRevocationStore) sessionKey(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

type noopRevocationStore struct{}

func (noopRevocationStore) Revoke(context.Context, string, time.Time) error { return nil }

func (noopRevocationStore) RevokeSession(context.Context, string, time.Time) error { return nil }

func (noopRevocationStore) IsRevoked(context.Context, string, string) (bool, error) {
	return false, nil
}
