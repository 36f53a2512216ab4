package domain

import "time"

// Role is the coarse-grained permission level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the durable account record. Password holds a bcrypt hash, or the
// plaintext value for legacy rows that have not been upgraded yet.
type User struct {
	ID        int64
	Username  string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
