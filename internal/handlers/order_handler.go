package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

// allowedStatusTransitions is the forward chain for delivery progress. Any
// non-terminal status may also drop to failed.
var allowedStatusTransitions = map[string]string{
	models.DeliveryStatusPending:   models.DeliveryStatusPacked,
	models.DeliveryStatusPacked:    models.DeliveryStatusInTransit,
	models.DeliveryStatusInTransit: models.DeliveryStatusDelivered,
}

type AdminOrderView struct {
	Order    models.Order     `json:"order"`
	User     *models.User     `json:"user,omitempty"`
	Recipe   *models.Recipe   `json:"recipe,omitempty"`
	Delivery *models.Delivery `json:"delivery,omitempty"`
}

// ListAllOrders is the admin listing. Referenced users, recipes and
// deliveries are resolved in chunked batches instead of one query per order.
func ListAllOrders(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "20")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var orders []models.Order
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	var userIDs, recipeIDs, deliveryIDs []uuid.UUID
	for _, order := range orders {
		if order.UserID != nil {
			userIDs = append(userIDs, *order.UserID)
		}
		recipeIDs = append(recipeIDs, order.RecipeID)
		deliveryIDs = append(deliveryIDs, order.DeliveryID)
	}

	users, err := helpers.LoadByIDs(userIDs, func(chunk []uuid.UUID) ([]models.User, error) {
		var rows []models.User
		err := gormDB.Where("id IN ?", chunk).Find(&rows).Error
		return rows, err
	}, func(u models.User) uuid.UUID { return u.ID })
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving order users.")
		return
	}

	recipes, err := helpers.LoadByIDs(recipeIDs, func(chunk []uuid.UUID) ([]models.Recipe, error) {
		var rows []models.Recipe
		err := gormDB.Unscoped().Where("id IN ?", chunk).Find(&rows).Error
		return rows, err
	}, func(r models.Recipe) uuid.UUID { return r.ID })
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving order recipes.")
		return
	}

	deliveries, err := helpers.LoadByIDs(deliveryIDs, func(chunk []uuid.UUID) ([]models.Delivery, error) {
		var rows []models.Delivery
		err := gormDB.Where("id IN ?", chunk).Find(&rows).Error
		return rows, err
	}, func(d models.Delivery) uuid.UUID { return d.ID })
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving order deliveries.")
		return
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		view := AdminOrderView{Order: order}
		if order.UserID != nil {
			if user, ok := users[*order.UserID]; ok {
				view.User = &user
			}
		}
		if recipe, ok := recipes[order.RecipeID]; ok {
			view.Recipe = &recipe
		}
		if delivery, ok := deliveries[order.DeliveryID]; ok {
			view.Delivery = &delivery
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      views,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func ListMyOrders(c *gin.Context) {
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

	var orders []models.Order
	if err := gormDB.Preload("Recipe").Preload("Delivery").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus advances an order along the delivery chain. Moving to
// failed is allowed from any non-terminal status; anything else must follow
// the chain one step at a time.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	if !isValidStatusTransition(order.DeliveryStatus, req.Status) {
		helpers.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Cannot move order from %s to %s.", order.DeliveryStatus, req.Status))
		return
	}

	if err := gormDB.Model(&order).Update("delivery_status", req.Status).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update order status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

func isValidStatusTransition(from, to string) bool {
	if from == models.DeliveryStatusDelivered || from == models.DeliveryStatusFailed {
		return false
	}
	if to == models.DeliveryStatusFailed {
		return true
	}
	return allowedStatusTransitions[from] == to
}

func deliveryQRData(order *models.Order) string {
	secretKey := os.Getenv("JWT_SECRET")
	signature := helpers.GenerateDeliverySignature(order.ID, order.TransactionID, order.DeliveryID, secretKey)
	return fmt.Sprintf("order:%s;transaction:%s;delivery:%s;signature:%s",
		order.ID.String(),
		order.TransactionID.String(),
		order.DeliveryID.String(),
		signature,
	)
}

func extractOrderIDFromQRData(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[0], "order:") || !strings.HasPrefix(parts[3], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "order:"))
}

func validateDeliveryQRSignature(order *models.Order, qrData string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[3], "signature:") {
		return false
	}
	secretKey := os.Getenv("JWT_SECRET")
	signature := strings.TrimPrefix(parts[3], "signature:")
	return helpers.VerifyDeliverySignature(order.ID, order.TransactionID, order.DeliveryID, secretKey, signature)
}

// GenerateDeliveryQR renders the signed label printed on an outgoing box.
func GenerateDeliveryQR(c *gin.Context) {
	orderIDStr := c.Param("id")
	orderID, err := helpers.ParseUUIDParam(orderIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	qrImage, err := qrcode.Encode(deliveryQRData(&order), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ConfirmDelivery marks an order delivered from a scanned label.
func ConfirmDelivery(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var confirmRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&confirmRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	orderID, err := extractOrderIDFromQRData(confirmRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	if !validateDeliveryQRSignature(&order, confirmRequest.QRData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	if order.DeliveryStatus == models.DeliveryStatusDelivered {
		helpers.RespondWithError(c, http.StatusBadRequest, "Order already delivered.")
		return
	}
	if order.DeliveryStatus == models.DeliveryStatusFailed {
		helpers.RespondWithError(c, http.StatusBadRequest, "Order delivery has failed and cannot be confirmed.")
		return
	}

	if err := gormDB.Model(&order).Update("delivery_status", models.DeliveryStatusDelivered).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to confirm delivery.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery confirmed successfully.",
		"order_id": order.ID,
	})
}
