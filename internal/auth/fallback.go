package auth

import (
	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
)

const defaultFallbackUsername = "admin"

// FallbackTrigger names the failure that led the middleware to consult the
// fallback policy.
type FallbackTrigger int

const (
	// TriggerStoreOutage: the token verified but the user store was unreachable.
	TriggerStoreOutage FallbackTrigger = iota
	// TriggerVerifyFailure: the token failed signature or expiry checks.
	TriggerVerifyFailure
)

// FallbackPolicy substitutes the bootstrap admin identity so that
// administrative access survives a database outage. Username follows
// AUTH_ADMIN_USERNAME.
type FallbackPolicy struct {
	Mode     string
	AdminID  int64
	Username string
}

// NewFallbackPolicy builds a policy from configuration.
func NewFallbackPolicy(cfg config.AuthConfig) FallbackPolicy {
	adminID := cfg.FallbackAdminID
	if adminID <= 0 {
		adminID = 1
	}
	username := cfg.AdminUsername
	if username == "" {
		username = defaultFallbackUsername
	}
	return FallbackPolicy{Mode: cfg.FallbackMode, AdminID: adminID, Username: username}
}

// Evaluate returns the substitute identity when the mode allows the trigger
// and the claims assert the bootstrap admin.
func (p FallbackPolicy) Evaluate(trigger FallbackTrigger, claims *Claims) (domain.Identity, bool) {
	if claims == nil || !p.allows(trigger) {
		return domain.Identity{}, false
	}
	if claims.Username != p.Username || claims.Role != domain.RoleAdmin {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: p.AdminID, Username: p.Username, Role: domain.RoleAdmin}, true
}

func (p FallbackPolicy) allows(trigger FallbackTrigger) bool {
	switch p.Mode {
	case config.FallbackStoreOutage:
		return trigger == TriggerStoreOutage
	case config.FallbackLegacy:
		return true
	default:
		return false
	}
}
