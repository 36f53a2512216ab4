package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
)

func TestContinuityBoundaryIsInclusive(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lifetime := 7 * 24 * time.Hour
	policy := NewContinuityPolicy(lifetime, 0.2)
	policy.Now = func() time.Time { return now }

	window := time.Duration(float64(lifetime) * 0.2)
	assert.True(t, policy.ShouldReissue(now.Add(window)), "exactly at threshold")
	assert.False(t, policy.ShouldReissue(now.Add(window+time.Second)), "just above threshold")
	assert.True(t, policy.ShouldReissue(now.Add(time.Duration(float64(lifetime)*0.15))))
	assert.False(t, policy.ShouldReissue(now.Add(lifetime)))
}

func TestContinuityDisabled(t *testing.T) {
	now := time.Now()
	assert.False(t, NewContinuityPolicy(time.Hour, 0).ShouldReissue(now.Add(time.Second)))
	assert.False(t, NewContinuityPolicy(time.Hour, 0.2).ShouldReissue(time.Time{}))
}

func TestFallbackModes(t *testing.T) {
	admin := &Claims{UserID: 42, Username: "admin", Role: domain.RoleAdmin}
	editor := &Claims{UserID: 42, Username: "editor", Role: domain.RoleAdmin}
	demoted := &Claims{UserID: 42, Username: "admin", Role: domain.RoleUser}
	want := domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin}

	cases := []struct {
		mode    string
		trigger FallbackTrigger
		claims  *Claims
		ok      bool
	}{
		{config.FallbackOff, TriggerStoreOutage, admin, false},
		{config.FallbackOff, TriggerVerifyFailure, admin, false},
		{config.FallbackStoreOutage, TriggerStoreOutage, admin, true},
		{config.FallbackStoreOutage, TriggerVerifyFailure, admin, false},
		{config.FallbackLegacy, TriggerStoreOutage, admin, true},
		{config.FallbackLegacy, TriggerVerifyFailure, admin, true},
		{config.FallbackLegacy, TriggerVerifyFailure, editor, false},
		{config.FallbackLegacy, TriggerVerifyFailure, demoted, false},
		{config.FallbackLegacy, TriggerVerifyFailure, nil, false},
	}
	for _, tc := range cases {
		policy := NewFallbackPolicy(config.AuthConfig{FallbackMode: tc.mode})
		identity, ok := policy.Evaluate(tc.trigger, tc.claims)
		assert.Equal(t, tc.ok, ok, "mode=%s trigger=%d", tc.mode, tc.trigger)
		if tc.ok {
			assert.Equal(t, want, identity)
		}
	}
}

func TestFallbackUsesConfiguredAdminID(t *testing.T) {
	policy := NewFallbackPolicy(config.AuthConfig{FallbackMode: config.FallbackLegacy, FallbackAdminID: 5})
	identity, ok := policy.Evaluate(TriggerVerifyFailure, &Claims{Username: "admin", Role: domain.RoleAdmin})
	assert.True(t, ok)
	assert.Equal(t, int64(5), identity.ID)
}

func TestFallbackFollowsConfiguredAdminUsername(t *testing.T) {
	policy := NewFallbackPolicy(config.AuthConfig{FallbackMode: config.FallbackStoreOutage, AdminUsername: "owner"})

	identity, ok := policy.Evaluate(TriggerStoreOutage, &Claims{UserID: 9, Username: "owner", Role: domain.RoleAdmin})
	require.True(t, ok)
	assert.Equal(t, domain.Identity{ID: 1, Username: "owner", Role: domain.RoleAdmin}, identity)

	_, ok = policy.Evaluate(TriggerStoreOutage, &Claims{UserID: 9, Username: "admin", Role: domain.RoleAdmin})
	assert.False(t, ok)
}

func TestPasswordCompare(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	assert.NoError(t, err)
	assert.True(t, IsHashed(hash))

	upgrade, err := ComparePassword(hash, "s3cret")
	assert.NoError(t, err)
	assert.False(t, upgrade)

	_, err = ComparePassword(hash, "wrong")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	upgrade, err = ComparePassword("legacy", "legacy")
	assert.NoError(t, err)
	assert.True(t, upgrade)

	_, err = ComparePassword("", "")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}
