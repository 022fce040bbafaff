package model

import (
	"time"
)

// UserToken is one issued session credential. Rows are never deleted:
// logout flips Revoked so the issuance history stays auditable.
type UserToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Token     string     `gorm:"size:512;uniqueIndex;not null" json:"-"` // Never expose the actual token in JSON responses
	ExpiresAt *time.Time `json:"expires_at,omitempty"`                   // nil = never expires
	Revoked   bool       `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsExpired checks if the token is past its expiry timestamp
func (t *UserToken) IsExpired() bool {
	return t.ExpiresAt != nil && !time.Now().Before(*t.ExpiresAt)
}

// IsValid checks if the token is usable (not revoked and not expired)
func (t *UserToken) IsValid() bool {
	return !t.Revoked && !t.IsExpired()
}
