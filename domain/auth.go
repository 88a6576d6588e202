package domain

import (
	"time"
)

// RevokedToken is a denylist entry for a token id that must no longer
// authenticate, created when a user logs out. ExpiresAt mirrors the token's
// own expiry so stale entries can be purged eventually.
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DenylistService tracks revoked token ids. Checked on every authentication,
// written on logout.
type DenylistService interface {
	Revoke(jti string, expiresAt time.Time) error
	IsRevoked(jti string) (bool, error)
	// PurgeExpired drops entries whose token would have expired anyway.
	PurgeExpired(now time.Time) error
}
