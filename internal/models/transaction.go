package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionPending = "pending"
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	User          *User      `gorm:"foreignKey:UserID"`
	Email         string     `gorm:"not null"`
	Reference     string     `gorm:"not null;uniqueIndex"`
	Amount        int        `gorm:"not null"`
	Status        string     `gorm:"not null;default:'pending'"`
	PaymentMethod string
	PaidAt        *time.Time
	DeliveryID    uuid.UUID `gorm:"type:uuid;not null"`
	Delivery      Delivery
	Recipes       []TransactionRecipe `gorm:"foreignKey:TransactionID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	return
}

// TransactionRecipe keeps the purchased recipe IDs on the transaction itself,
// so the verifier still sees them when a recipe has since been removed from
// the catalog.
type TransactionRecipe struct {
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipeID      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
}

func (TransactionRecipe) TableName() string {
	return "transaction_recipes"
}
