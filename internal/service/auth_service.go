package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/auth"
	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

const msgInvalidCredentials = "Invalid username or password"

// ClientInfo describes the caller's connection for session records and audit.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// LoginResult is returned by Login and Register.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	SessionID string
}

// AuthService coordinates login, registration, logout and password changes.
type AuthService struct {
	users             repository.UserRepository
	sessions          repository.SessionRepository
	codec             *auth.TokenCodec
	revocations       auth.RevocationStore
	dispatcher        events.Dispatcher
	logger            *zap.Logger
	bcryptCost        int
	allowRegistration bool
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	Users       repository.UserRepository
	Sessions    repository.SessionRepository
	Codec       *auth.TokenCodec
	Revocations auth.RevocationStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:             deps.Users,
		sessions:          deps.Sessions,
		codec:             deps.Codec,
		revocations:       deps.Revocations,
		dispatcher:        deps.Dispatcher,
		logger:            logger,
		bcryptCost:        cfg.BcryptCost,
		allowRegistration: cfg.AllowRegistration,
	}
}

// Login checks the credentials, upgrades a legacy plaintext password and
// opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string, client ClientInfo) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return nil, apperrors.NewInternalError(err)
	}

	needsUpgrade, err := auth.ComparePassword(user.Password, password)
	if err != nil {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if needsUpgrade {
		s.upgradePassword(ctx, user, password, client)
	}

	result, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.EventUserLoggedIn,
		Actor:      actorFor(user, client.IP),
		EntityType: "user",
		EntityID:   strconv.FormatInt(user.ID, 10),
	})
	return result, nil
}

// Register creates a user-role account and logs it in.
func (s *AuthService) Register(ctx context.Context, username, password string, client ClientInfo) (*LoginResult, error) {
	if !s.allowRegistration {
		return nil, apperrors.NewForbidden("Registration is disabled")
	}
	username = strings.TrimSpace(username)

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, hashFailure("password", err)
	}
	user := &domain.User{Username: username, Password: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("Username already taken", map[string]any{"username": username})
		}
		return nil, apperrors.NewInternalError(err)
	}

	result, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		Actor:      actorFor(user, client.IP),
		EntityType: "user",
		EntityID:   strconv.FormatInt(user.ID, 10),
	})
	return result, nil
}

// Logout revokes the presented token and its whole session, so tokens
// reissued during the session stop working too, and deletes the session
// record. Every step is best effort; logout always succeeds for the caller.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, sessionID string, client ClientInfo) {
	if claims != nil && claims.SessionID != "" {
		sessionID = claims.SessionID
	}
	if s.revocations != nil {
		if claims != nil {
			if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
				s.logger.Warn("token revocation failed", zap.String("jti", claims.ID), zap.Error(err))
			}
		}
		if sessionID != "" {
			if err := s.revocations.RevokeSession(ctx, sessionID, s.codec.LatestExpiry()); err != nil {
				s.logger.Warn("session revocation failed", zap.String("sid", sessionID), zap.Error(err))
			}
		}
	}
	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("session delete failed", zap.Error(err))
		}
	}
	if claims == nil {
		return
	}
	identity := claims.Identity()
	s.publish(ctx, events.Event{
		Type:       events.EventUserLoggedOut,
		Actor:      events.ActorFromIdentity(identity, client.IP),
		EntityType: "user",
		EntityID:   strconv.FormatInt(identity.ID, 10),
	})
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, identity domain.Identity, current, next string, client ClientInfo) error {
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized(auth.MsgInvalidToken)
		}
		return apperrors.NewInternalError(err)
	}
	if _, err := auth.ComparePassword(user.Password, current); err != nil {
		return apperrors.NewValidationError("Current password is incorrect", nil)
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return hashFailure("new_password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:       events.EventPasswordChanged,
		Actor:      actorFor(user, client.IP),
		EntityType: "user",
		EntityID:   strconv.FormatInt(user.ID, 10),
	})
	return nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes an existing
// account with that username. created reports whether a row was inserted.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (user *domain.User, created bool, err error) {
	existing, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			if err := s.users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = domain.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	if password == "" {
		return nil, false, errors.New("admin password required to create the admin account")
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, false, err
	}
	user = &domain.User{Username: username, Password: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, client ClientInfo) (*LoginResult, error) {
	identity := domain.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
	sessionID := uuid.NewString()
	token, claims, err := s.codec.IssueForSession(identity, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	result := &LoginResult{User: user, Token: token, ExpiresAt: claims.ExpiresAtTime()}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenID:   claims.ID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		ExpiresAt: result.ExpiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Warn("session record not created", zap.Int64("user_id", user.ID), zap.Error(err))
		return result, nil
	}
	result.SessionID = session.ID
	return result, nil
}

func (s *AuthService) upgradePassword(ctx context.Context, user *domain.User, password string, client ClientInfo) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err == nil {
		err = s.users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn("legacy password upgrade failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	user.Password = hash
	s.publish(ctx, events.Event{
		Type:       events.EventPasswordUpgraded,
		Actor:      actorFor(user, client.IP),
		EntityType: "user",
		EntityID:   strconv.FormatInt(user.ID, 10),
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	emit(ctx, s.dispatcher, s.logger, event)
}

// hashFailure reports an over-long password as a validation error on field.
func hashFailure(field string, err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperrors.NewValidationError("Password must be at most 72 bytes", map[string]any{field: "pwbytes"})
	}
	return apperrors.NewInternalError(err)
}

func actorFor(user *domain.User, ip string) events.Actor {
	return events.ActorFromIdentity(domain.Identity{ID: user.ID, Username: user.Username, Role: user.Role}, ip)
}
