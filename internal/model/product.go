package model

import (
	"time"
)

// Product is a catalog entry. Warehouse stock rows reference it; a
// stock entry may create its product implicitly by name.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
