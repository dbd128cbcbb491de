package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusPacked    = "packed"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// Order is one purchased recipe instance. Orders are only created once the
// originating transaction has been confirmed by the gateway.
type Order struct {
	gorm.Model
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID         *uuid.UUID `gorm:"type:uuid;index"`
	User           *User      `gorm:"foreignKey:UserID"`
	RecipeID       uuid.UUID  `gorm:"type:uuid;not null"`
	Recipe         Recipe
	Amount         int       `gorm:"not null"`
	DeliveryID     uuid.UUID `gorm:"type:uuid;not null"`
	Delivery       Delivery
	DeliveryStatus string    `gorm:"not null;default:'pending'"`
	DurationRange  string    `gorm:"not null"`
	TransactionID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}
