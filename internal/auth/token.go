package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

var (
	// ErrTokenExpired is returned when a token's signature is good but exp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and unexpected algorithms.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims describes the JWT payload.
type Claims struct {
	UserID    int64       `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	// SessionID ties the token to its login session; reissued tokens keep it.
	SessionID string      `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identity encoded in the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// ExpiresAtTime returns the expiry instant, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenCodec handles issuing and validating signed credentials.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenCodec builds a codec signing with secret and issuing tokens valid for lifetime.
func NewTokenCodec(secret string, lifetime time.Duration) *TokenCodec {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	if now != nil {
		tc.now = now
	}
	return tc
}

// Lifetime returns the validity window of newly issued tokens.
func (tc *TokenCodec) Lifetime() time.Duration {
	return tc.lifetime
}

// LatestExpiry is the furthest expiry a token issued now can carry.
func (tc *TokenCodec) LatestExpiry() time.Time {
	return tc.now().Add(tc.lifetime)
}

// Issue signs a token for the identity.
func (tc *TokenCodec) Issue(identity domain.Identity) (string, time.Time, error) {
	token, claims, err := tc.IssueClaims(identity)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAtTime(), nil
}

// IssueClaims signs a token and also returns its claims, for callers that
// need the token id.
func (tc *TokenCodec) IssueClaims(identity domain.Identity) (string, *Claims, error) {
	return tc.IssueForSession(identity, "")
}

// IssueForSession signs a token bound to sessionID.
func (tc *TokenCodec) IssueForSession(identity domain.Identity, sessionID string) (string, *Claims, error) {
	now := tc.now()
	claims := &Claims{
		UserID:    identity.ID,
		Username:  identity.Username,
		Role:      identity.Role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, claims, nil
}

// Verify checks signature and expiry and returns the claims.
func (tc *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// DecodeUnverified reads the claims without checking signature or expiry.
// The result must never be trusted on its own.
func (tc *TokenCodec) DecodeUnverified(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}
