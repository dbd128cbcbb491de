package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

type DeliveryRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Note    string `json:"note"`
}

func CreateDelivery(c *gin.Context) {
	var req DeliveryRequest
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

	delivery := models.Delivery{
		UserID:  &userUUID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Note:    req.Note,
	}

	if err := gormDB.Create(&delivery).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save delivery information.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Delivery information saved successfully.",
		"delivery_id": delivery.ID,
	})
}

func GetDelivery(c *gin.Context) {
	deliveryID := c.Param("id")

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

	var delivery models.Delivery
	if err := gormDB.Where("id = ?", deliveryID).First(&delivery).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Delivery information not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving delivery information.")
		return
	}

	role, _ := c.Get("role")
	if role != "admin" && (delivery.UserID == nil || *delivery.UserID != userID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this delivery.")
		return
	}

	c.JSON(http.StatusOK, delivery)
}

func ListMyDeliveries(c *gin.Context) {
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

	var deliveries []models.Delivery
	if err := gormDB.Where("user_id = ?", userID).Order("created_at DESC").Find(&deliveries).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving deliveries.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": deliveries,
	})
}
