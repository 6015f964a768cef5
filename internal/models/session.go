package models

import "time"

// Session persistence tiers. Ephemeral sessions expire quickly; durable ones
// are the "remember me" variant.
const (
	PersistenceEphemeral = "ephemeral"
	PersistenceDurable   = "durable"
)

// Session is the authenticated-user record. One abstraction covers both
// tiers; Persistence decides the sliding expiry window at write time.
type Session struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	UserID       string    `gorm:"size:64;not null;index" json:"user_id"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	Persistence  string    `gorm:"size:16;not null" json:"persistence"`
	SessionStart time.Time `json:"session_start"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the session is past its sliding expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
