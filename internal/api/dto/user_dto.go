package dto

import (
	"time"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,pwbytes"`
}

// ChangePasswordRequest payload for POST /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=72"`
	NewPassword     string `json:"new_password" validate:"required,min=8,pwbytes,nefield=CurrentPassword"`
}

// RoleChangeRequest payload for PATCH /api/admin/users/:id/role.
type RoleChangeRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=user admin"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// UserDetail adds timestamps for the admin panel.
type UserDetail struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// LoginResponse is returned by login and register.
type LoginResponse struct {
	Success   bool         `json:"success"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewUserResponse maps an identity.
func NewUserResponse(identity domain.Identity) UserResponse {
	return UserResponse{ID: identity.ID, Username: identity.Username, Role: identity.Role}
}

// NewUserDetail maps a stored user without its password.
func NewUserDetail(user domain.User) UserDetail {
	return UserDetail{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
