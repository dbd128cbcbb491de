package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

type CartItemRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"min=0"`
}

func AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var recipe models.Recipe
	if err := gormDB.Where("id = ?", req.RecipeID).First(&recipe).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Recipe not found.")
		return
	}

	var item models.CartItem
	err := gormDB.Where("user_id = ? AND recipe_id = ?", userUUID, req.RecipeID).First(&item).Error
	if err == nil {
		item.Quantity += req.Quantity
		if err := gormDB.Save(&item).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update cart item.")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart item quantity updated.",
			"item":    item,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking cart.")
		return
	}

	item = models.CartItem{
		UserID:   userUUID,
		RecipeID: req.RecipeID,
		Quantity: req.Quantity,
	}
	if err := gormDB.Create(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add cart item.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added to cart.",
		"item":    item,
	})
}

func UpdateCartItem(c *gin.Context) {
	recipeID := c.Param("recipeId")

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var item models.CartItem
	if err := gormDB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Cart item not found.")
		return
	}

	item.Quantity = req.Quantity
	if err := gormDB.Save(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update cart item.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully.",
		"item":    item,
	})
}

func RemoveCartItem(c *gin.Context) {
	recipeID := c.Param("recipeId")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.CartItem{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove cart item.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Cart item not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully.",
	})
}

func ListCartItems(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var items []models.CartItem
	if err := gormDB.Preload("Recipe").Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving cart.")
		return
	}

	total := 0
	for _, item := range items {
		total += item.Recipe.Price * item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}
