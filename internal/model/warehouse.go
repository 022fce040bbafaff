package model

import (
	"time"
)

// Warehouse is one stock record of a Product held by a Business
type Warehouse struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProductID      uint       `gorm:"not null;index" json:"product_id"`
	BusinessID     uint       `gorm:"not null;index" json:"business_id"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Description    string     `gorm:"size:255" json:"description"`
	Measure        string     `gorm:"size:64" json:"measure"`
	Total          int        `json:"total"`
	Image          string     `gorm:"size:255" json:"image"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

// DefaultWarehouseImage is assigned when no picture is uploaded
const DefaultWarehouseImage = "warehouses/default.jpg"
