package model

import (
	"time"
)

// Workplace values for an affiliation
const (
	WorkplaceOwnBusiness = 1 // default: the person works at their own business
)

// BusinessPerson binds a Person to a Business under a Role. The
// (business_id, person_id) pair is checked before insert and also
// backed by a composite unique index, so two concurrent creates for
// the same pair cannot both land.
type BusinessPerson struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"not null;uniqueIndex:idx_business_person" json:"business_id"`
	PersonID   uint      `gorm:"not null;uniqueIndex:idx_business_person" json:"person_id"`
	RoleID     uint      `gorm:"not null" json:"role_id"`
	Active     int       `gorm:"not null;default:1" json:"active"`
	Pix        string    `gorm:"size:255" json:"pix"`
	Type       string    `gorm:"size:64" json:"type"`
	Name       string    `gorm:"size:255" json:"name"` // pix holder name
	Bank       string    `gorm:"size:255" json:"bank"`
	Workplace  int       `gorm:"not null;default:1" json:"workplace"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Person   *Person   `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Role     *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
