package auth

import "time"

// ContinuityPolicy implements sliding expiration: a token whose remaining
// lifetime has dropped to Threshold*Lifetime or less gets reissued.
type ContinuityPolicy struct {
	Lifetime  time.Duration
	Threshold float64
	Now       func() time.Time
}

// NewContinuityPolicy builds a policy. A zero threshold disables reissue.
func NewContinuityPolicy(lifetime time.Duration, threshold float64) ContinuityPolicy {
	return ContinuityPolicy{Lifetime: lifetime, Threshold: threshold, Now: time.Now}
}

// ShouldReissue reports whether a token expiring at expiresAt is near expiry.
// The boundary is inclusive.
func (p ContinuityPolicy) ShouldReissue(expiresAt time.Time) bool {
	if p.Threshold <= 0 || p.Lifetime <= 0 || expiresAt.IsZero() {
		return false
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	timeToExpiry := expiresAt.Sub(now())
	window := time.Duration(float64(p.Lifetime) * p.Threshold)
	return timeToExpiry <= window
}
