package model

import (
	"time"
)

// Business is a tenant node in a self-referential tree. ParentID is
// nil for roots; children are derived by query on parent_id, never
// held as pointers, so cycles cannot form structurally. Reparenting is
// still validated against the node's own subtree at the handler layer.
type Business struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CNPJ      string    `gorm:"size:32;uniqueIndex;not null" json:"cnpj"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Image     string    `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Parent         *Business        `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children       []Business       `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	BusinessPeople []BusinessPerson `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business_people,omitempty"`
	Warehouses     []Warehouse      `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"warehouses,omitempty"`
	Recipes        []Recipe         `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"recipes,omitempty"`
}

// DefaultBusinessImage is assigned when no picture is uploaded
const DefaultBusinessImage = "businesses/default.jpg"
