package models

import "time"

// ResetCode is the short-lived password-recovery credential stored in Redis,
// keyed by email. Exactly one live code exists per email; issuing a new one
// replaces the previous record.
type ResetCode struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (rc ResetCode) Expired(now time.Time) bool {
	return now.After(rc.ExpiresAt)
}
