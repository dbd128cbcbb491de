package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/middleware"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

type CheckoutRequest struct {
	Email      string      `json:"email" binding:"required,email"`
	RecipeIDs  []uuid.UUID `json:"recipe_ids" binding:"required,min=1"`
	DeliveryID uuid.UUID   `json:"delivery_id" binding:"required"`
}

// InitializeCheckout records a pending transaction for the cart contents and
// hands the customer over to the gateway's hosted checkout page.
func InitializeCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
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

	paystackClient := middleware.GetPaystackClient(c)
	if paystackClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway client not found.")
		return
	}

	var delivery models.Delivery
	if err := gormDB.Where("id = ?", req.DeliveryID).First(&delivery).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Delivery information not found.")
		return
	}

	totalAmount := 0
	for _, recipeID := range req.RecipeIDs {
		var recipe models.Recipe
		if err := gormDB.Where("id = ?", recipeID).First(&recipe).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "One or more recipes no longer exist.")
			return
		}
		totalAmount += recipe.Price
	}

	reference := fmt.Sprintf("NBX-%d", time.Now().UnixNano())

	recipeRows := make([]models.TransactionRecipe, 0, len(req.RecipeIDs))
	for _, recipeID := range req.RecipeIDs {
		recipeRows = append(recipeRows, models.TransactionRecipe{RecipeID: recipeID})
	}

	transaction := models.Transaction{
		UserID:     &userUUID,
		Email:      req.Email,
		Reference:  reference,
		Amount:     totalAmount,
		Status:     models.TransactionPending,
		DeliveryID: delivery.ID,
		Recipes:    recipeRows,
	}
	if err := gormDB.Create(&transaction).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction.")
		return
	}

	initialization, err := paystackClient.InitializeTransaction(req.Email, totalAmount, reference)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to initialize payment with gateway.")
		return
	}

	helpers.RespondWithSuccess(c, http.StatusOK, "Checkout initialized successfully.", gin.H{
		"authorization_url": initialization.AuthorizationURL,
		"reference":         reference,
		"amount":            totalAmount,
		"transaction_id":    transaction.ID,
	})
}
