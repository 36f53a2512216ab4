package domain

import "time"

// Setting is a key/value site setting. Public settings are exposed to
// anonymous visitors.
type Setting struct {
	Key       string
	Value     string
	Public    bool
	UpdatedBy *int64
	UpdatedAt time.Time
}
