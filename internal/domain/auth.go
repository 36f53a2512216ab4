package domain

import "time"

// Identity is the request-scoped caller attached after authentication.
// It is never persisted.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Session is the server-side login record that backs logout semantics.
type Session struct {
	ID        string
	UserID    int64
	TokenID   string
	IP        string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}
