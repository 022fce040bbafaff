package model

import (
	"time"
)

// Person is the human profile behind an account, exactly one per User.
// It is always created in the same transaction as its User.
type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	CPF       string    `gorm:"size:32;uniqueIndex;not null" json:"cpf"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Image     string    `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User           *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessPeople []BusinessPerson `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"business_people,omitempty"`
}

// DefaultPersonImage is assigned when no picture is uploaded
const DefaultPersonImage = "people/default.jpg"
