package events

import (
	"time"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn     EventType = "user.logged_in"
	EventUserLoggedOut    EventType = "user.logged_out"
	EventUserRegistered   EventType = "user.registered"
	EventUserRoleChanged  EventType = "user.role_changed"
	EventPasswordChanged  EventType = "user.password_changed"
	EventPasswordUpgraded EventType = "user.password_upgraded"
	EventTokenRefreshed   EventType = "auth.token_refreshed"
	EventFallbackIdentity EventType = "auth.fallback_identity"
	EventProjectCreated   EventType = "project.created"
	EventProjectUpdated   EventType = "project.updated"
	EventProjectDeleted   EventType = "project.deleted"
	EventMediaUploaded    EventType = "media.uploaded"
	EventMediaDeleted     EventType = "media.deleted"
	EventSettingUpdated   EventType = "setting.updated"
)

// AllEventTypes lists every type the activity log records.
var AllEventTypes = []EventType{
	EventUserLoggedIn,
	EventUserLoggedOut,
	EventUserRegistered,
	EventUserRoleChanged,
	EventPasswordChanged,
	EventPasswordUpgraded,
	EventTokenRefreshed,
	EventFallbackIdentity,
	EventProjectCreated,
	EventProjectUpdated,
	EventProjectDeleted,
	EventMediaUploaded,
	EventMediaDeleted,
	EventSettingUpdated,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID   *int64 `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	IP       string `json:"ip,omitempty"`
}

// ActorFromIdentity builds an actor for an authenticated caller.
func ActorFromIdentity(identity domain.Identity, ip string) Actor {
	id := identity.ID
	return Actor{UserID: &id, Username: identity.Username, IP: ip}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Actor      Actor          `json:"actor"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload,omitempty"`
}
