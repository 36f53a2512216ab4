package domain

import "time"

// ActivityLog records an admin-visible audit entry.
type ActivityLog struct {
	ID         int64
	UserID     *int64
	Username   string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	IP         string
	CreatedAt  time.Time
}
