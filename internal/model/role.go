package model

import (
	"time"
)

// RoleTypeSystem is the default classification for roles
const RoleTypeSystem = "Sistema"

// Role classifies a business-person affiliation
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:64;not null;default:Sistema" json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
