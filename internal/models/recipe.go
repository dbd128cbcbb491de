package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Price       int       `gorm:"not null"`
	Servings    int       `gorm:"not null;default:1"`
	CookTime    int
	ImagePath   string
	Categories  []Category `gorm:"many2many:recipe_categories;"`
}

func (recipe *Recipe) BeforeCreate(tx *gorm.DB) (err error) {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	return
}
