package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery is the destination snapshot captured at checkout. It is never
// mutated by the payment flow; orders and transactions reference it as-is.
type Delivery struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"not null"`
	Email     string     `gorm:"not null"`
	Phone     string     `gorm:"not null"`
	Address   string     `gorm:"not null"`
	City      string     `gorm:"not null"`
	State     string     `gorm:"not null"`
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (delivery *Delivery) BeforeCreate(tx *gorm.DB) (err error) {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	return
}
