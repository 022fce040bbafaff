package model

import (
	"time"
)

// Recipe belongs to a Business and the Person who registered it
type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"not null;index" json:"business_id"`
	PersonID    uint      `gorm:"not null;index" json:"person_id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Person   *Person   `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}

// DefaultRecipeImage is assigned when no picture is uploaded
const DefaultRecipeImage = "recipes/default.jpg"
