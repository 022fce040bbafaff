package model

import (
	"time"
)

// User is a login identity. Password is nullable: accounts created
// without one cannot authenticate with credentials, and an account is
// only allowed to log in once EmailVerifiedAt is set.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Email           *string    `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Password        *string    `gorm:"size:255" json:"-"` // bcrypt hash, never exposed
	RememberToken   *string    `gorm:"size:255" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Person *Person     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"person,omitempty"`
	Tokens []UserToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasPassword reports whether the account can log in with credentials
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// IsVerified reports whether the account confirmed its email address
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
