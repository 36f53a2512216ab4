package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository"
)

var (
	// ErrUnknownSubject means the token's subject has no user record.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrStoreUnavailable means the lookup failed for reasons other than absence.
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// UserLookup is the subset of the user repository the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// IdentityResolver maps verified claims to a live user.
type IdentityResolver struct {
	users  UserLookup
	logger *zap.Logger
}

// NewIdentityResolver constructs a resolver.
func NewIdentityResolver(users UserLookup, logger *zap.Logger) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{users: users, logger: logger}
}

// Resolve loads the user named by the claims. The returned identity takes id
// and username from the record and role from the claims; the record itself is
// returned so callers can use its current role when reissuing.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *Claims) (domain.Identity, *domain.User, error) {
	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, nil, ErrUnknownSubject
		}
		r.logger.Warn("identity lookup failed",
			zap.Int64("user_id", claims.UserID),
			zap.Error(err))
		return domain.Identity{}, nil, ErrStoreUnavailable
	}
	return domain.Identity{ID: user.ID, Username: user.Username, Role: claims.Role}, user, nil
}
