package auth

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/observability"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

const (
	identityKey = "auth_identity"
	claimsKey   = "auth_claims"
)

// Response messages.
const (
	MsgAuthenticationRequired = "Authentication required"
	MsgInvalidToken           = "Invalid token"
	MsgAdminRequired          = "Admin access required"
)

// Auth outcome labels recorded in metrics.
const (
	OutcomeMissing  = "missing"
	OutcomeInvalid  = "invalid"
	OutcomeRevoked  = "revoked"
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeReissued = "reissued"
)

// MiddlewareDeps bundles the collaborators of the authentication middleware.
type MiddlewareDeps struct {
	Locator       CredentialLocator
	Codec         *TokenCodec
	Resolver      *IdentityResolver
	Continuity    ContinuityPolicy
	Fallback      FallbackPolicy
	Revocations   RevocationStore
	TokenCookie   CookieWriter
	RefreshHeader string
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// Middleware authenticates requests and keeps sessions alive.
type Middleware struct {
	deps MiddlewareDeps
}

// NewMiddleware constructs middleware.
func NewMiddleware(deps MiddlewareDeps) *Middleware {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Revocations == nil {
		deps.Revocations = noopRevocationStore{}
	}
	if deps.RefreshHeader == "" {
		deps.RefreshHeader = "X-Auth-Token"
	}
	return &Middleware{deps: deps}
}

// Handle enforces authentication for protected routes:
// locate, verify, check revocation, resolve, maybe reissue, attach.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	cred, ok := m.deps.Locator.Locate(c)
	if !ok {
		m.deps.Metrics.RecordAuthOutcome(OutcomeMissing)
		return apperrors.NewUnauthorized(MsgAuthenticationRequired)
	}

	claims, err := m.deps.Codec.Verify(cred.Token)
	if err != nil {
		if identity, ok := m.fallbackOnVerifyFailure(cred.Token); ok {
			return m.proceedWithFallback(c, identity, "verify_failure")
		}
		m.deps.Logger.Debug("token rejected",
			zap.String("source", string(cred.Source)),
			zap.Error(err))
		m.deps.Metrics.RecordAuthOutcome(OutcomeInvalid)
		return apperrors.NewUnauthorized(MsgInvalidToken)
	}

	if m.isRevoked(c, claims) {
		m.deps.Metrics.RecordAuthOutcome(OutcomeRevoked)
		return apperrors.NewUnauthorized(MsgInvalidToken)
	}

	identity, user, err := m.deps.Resolver.Resolve(c.UserContext(), claims)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			if fallback, ok := m.deps.Fallback.Evaluate(TriggerStoreOutage, claims); ok {
				return m.proceedWithFallback(c, fallback, "store_outage")
			}
		}
		m.deps.Metrics.RecordAuthOutcome(OutcomeInvalid)
		return apperrors.NewUnauthorized(MsgInvalidToken)
	}

	m.maybeReissue(c, claims, user)

	m.deps.Metrics.RecordAuthOutcome(OutcomeOK)
	c.Locals(identityKey, identity)
	c.Locals(claimsKey, claims)
	return c.Next()
}

// Inspect verifies the request's credential without failing the request.
// Used by logout, which must succeed even with a stale token.
func (m *Middleware) Inspect(c *fiber.Ctx) (*Claims, bool) {
	if claims, ok := ClaimsFromContext(c); ok {
		return claims, true
	}
	cred, ok := m.deps.Locator.Locate(c)
	if !ok {
		return nil, false
	}
	claims, err := m.deps.Codec.Verify(cred.Token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (m *Middleware) fallbackOnVerifyFailure(token string) (domain.Identity, bool) {
	unverified, err := m.deps.Codec.DecodeUnverified(token)
	if err != nil {
		return domain.Identity{}, false
	}
	return m.deps.Fallback.Evaluate(TriggerVerifyFailure, unverified)
}

func (m *Middleware) proceedWithFallback(c *fiber.Ctx, identity domain.Identity, reason string) error {
	m.deps.Logger.Warn("fallback admin identity used",
		zap.String("reason", reason),
		zap.String("ip", c.IP()),
		zap.String("path", c.Path()))
	m.deps.Metrics.RecordAuthOutcome(OutcomeFallback)
	m.publish(c, events.Event{
		Type:       events.EventFallbackIdentity,
		Actor:      events.ActorFromIdentity(identity, c.IP()),
		EntityType: "user",
		EntityID:   strconv.FormatInt(identity.ID, 10),
		Payload:    map[string]any{"reason": reason, "path": c.Path()},
	})
	c.Locals(identityKey, identity)
	return c.Next()
}

func (m *Middleware) isRevoked(c *fiber.Ctx, claims *Claims) bool {
	revoked, err := m.deps.Revocations.IsRevoked(c.UserContext(), claims.ID, claims.SessionID)
	if err != nil {
		m.deps.Logger.Warn("revocation check failed", zap.Error(err))
		return false
	}
	return revoked
}

// maybeReissue extends the session when the token is near expiry. The new
// token carries the stored role and session. The response is only touched
// once every step has succeeded; failures are logged and never fail the request.
func (m *Middleware) maybeReissue(c *fiber.Ctx, claims *Claims, user *domain.User) {
	if user == nil || !m.deps.Continuity.ShouldReissue(claims.ExpiresAtTime()) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.deps.Logger.Error("token reissue panicked", zap.Any("panic", r))
		}
	}()

	identity := domain.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
	token, reissued, err := m.deps.Codec.IssueForSession(identity, claims.SessionID)
	if err != nil {
		m.deps.Logger.Warn("token reissue failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	m.publish(c, events.Event{
		Type:       events.EventTokenRefreshed,
		Actor:      events.ActorFromIdentity(identity, c.IP()),
		EntityType: "user",
		EntityID:   strconv.FormatInt(user.ID, 10),
	})
	m.deps.TokenCookie.Set(c, token, reissued.ExpiresAtTime())
	c.Set(m.deps.RefreshHeader, token)
	m.deps.Metrics.RecordAuthOutcome(OutcomeReissued)
}

func (m *Middleware) publish(c *fiber.Ctx, event events.Event) {
	if m.deps.Dispatcher == nil {
		return
	}
	if err := m.deps.Dispatcher.Publish(c.UserContext(), event); err != nil {
		m.deps.Logger.Warn("publish auth event", zap.Error(err))
	}
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// ClaimsFromContext returns the verified claims of the current request.
// Fallback identities have no claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
