package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	identities := []domain.Identity{
		{ID: 1, Username: "admin", Role: domain.RoleAdmin},
		{ID: 77, Username: "reader", Role: domain.RoleUser},
	}
	for _, identity := range identities {
		token, expiresAt, err := codec.Issue(identity)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, identity, claims.Identity())
		assert.NotEmpty(t, claims.ID)
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	identity := domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	first, a, err := codec.IssueClaims(identity)
	require.NoError(t, err)
	second, b, err := codec.IssueClaims(identity)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("secret", time.Hour).WithClock(func() time.Time { return now })
	token, _, err := codec.Issue(domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenCodec("other", time.Hour).Issue(domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID:   1,
		Username: "admin",
		Role:     domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenCodec("secret", time.Hour).Verify(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewTokenCodec("secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeUnverifiedReadsForeignTokens(t *testing.T) {
	token, _, err := NewTokenCodec("other", time.Hour).Issue(domain.Identity{ID: 9, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := NewTokenCodec("secret", time.Hour).DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = NewTokenCodec("secret", time.Hour).DecodeUnverified("x.y")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
