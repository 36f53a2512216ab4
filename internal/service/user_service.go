package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// UserService exposes account administration.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

// List returns accounts ordered by id.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ChangeRole sets the stored role of user id. The change reaches the user's
// token at its next reissue or login. Admins cannot demote themselves.
func (s *UserService) ChangeRole(ctx context.Context, id int64, role domain.Role, actor domain.Identity, ip string) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if id == actor.ID && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("cannot remove your own admin role", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"id": id})
	}
	previous := user.Role
	if previous == role {
		return user, nil
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"id": id})
	}
	user.Role = role

	emit(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserRoleChanged,
		Actor:      events.ActorFromIdentity(actor, ip),
		EntityType: "user",
		EntityID:   strconv.FormatInt(id, 10),
		Payload:    map[string]any{"from": string(previous), "to": string(role)},
	})
	return user, nil
}
