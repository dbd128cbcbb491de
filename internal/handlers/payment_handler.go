package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/gateway"
	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/middleware"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
	"github.com/ProsperCoded/nourish-box-sub000/internal/notifier"
)

type OrderCounts struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// VerifyPayment settles a checkout: it confirms the reference with the
// gateway, flips the transaction status exactly once, and fans out one order
// per purchased recipe. Order-creation and email failures never fail the
// verification itself.
func VerifyPayment(c *gin.Context) {
	reference := c.Query("reference")
	transactionIDStr := c.Query("transactionId")
	if reference == "" || transactionIDStr == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required parameters: reference and transactionId.")
		return
	}

	transactionID, err := helpers.ParseUUIDParam(transactionIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID.")
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

	var transaction models.Transaction
	if err := gormDB.Preload("Recipes").Preload("Delivery").Where("reference = ? AND id = ?", reference, transactionID).First(&transaction).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Transaction not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving transaction.")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("payment verification panicked",
				"reference", reference,
				"transaction_id", transaction.ID,
				"panic", r)
			markTransactionFailed(gormDB, transaction.ID)
			helpers.RespondWithError(c, http.StatusInternalServerError, "Something went wrong while verifying the payment.")
		}
	}()

	verification, err := paystackClient.VerifyTransaction(reference)
	if err != nil {
		// The transaction stays pending when the gateway itself could not
		// be consulted; only a gateway-reported failure marks it failed.
		message := "Payment verification failed."
		if gatewayErr, ok := err.(*gateway.Error); ok && gatewayErr.Message != "" {
			message = "Payment verification failed: " + gatewayErr.Message
		}
		slog.Error("gateway verification call failed",
			"reference", reference,
			"error", err)
		helpers.RespondWithError(c, http.StatusBadRequest, message)
		return
	}

	if !verification.Status || verification.Data.Status != "success" {
		if err := gormDB.Model(&transaction).Update("status", models.TransactionFailed).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction status.")
			return
		}
		helpers.RespondWithError(c, http.StatusBadRequest, "Payment was not successful.")
		return
	}

	paidAt := time.Now()
	if parsed, parseErr := time.Parse(time.RFC3339, verification.Data.PaidAt); parseErr == nil {
		paidAt = parsed
	}

	updates := map[string]interface{}{
		"status":         models.TransactionSuccess,
		"payment_method": verification.Data.Channel,
		"paid_at":        paidAt,
	}
	if err := gormDB.Model(&transaction).Updates(updates).Error; err != nil {
		markTransactionFailed(gormDB, transaction.ID)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction status.")
		return
	}

	recipeIDs := make([]uuid.UUID, 0, len(transaction.Recipes))
	for _, row := range transaction.Recipes {
		recipeIDs = append(recipeIDs, row.RecipeID)
	}

	counts, recipeNames := createOrdersForTransaction(gormDB, &transaction, recipeIDs)

	if counts.Successful >= 1 {
		publishOrderConfirmed(c, gormDB, &transaction, counts, recipeNames)
	}

	helpers.RespondWithSuccess(c, http.StatusOK, "Payment verified successfully.", gin.H{
		"reference": verification.Data.Reference,
		"amount":    float64(verification.Data.Amount) / 100,
		"status":    verification.Data.Status,
		"paid_at":   paidAt,
		"customer": gin.H{
			"email":      transaction.Email,
			"first_name": verification.Data.Customer.FirstName,
			"last_name":  verification.Data.Customer.LastName,
		},
		"transaction": gin.H{
			"id":             transaction.ID,
			"status":         models.TransactionSuccess,
			"payment_method": verification.Data.Channel,
		},
		"orders": counts,
	})
}

// createOrdersForTransaction creates one order per recipe ID concurrently.
// Each creation stands alone: a missing recipe or a failed insert is counted
// and logged, and the remaining creations proceed.
func createOrdersForTransaction(gormDB *gorm.DB, transaction *models.Transaction, recipeIDs []uuid.UUID) (OrderCounts, []string) {
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		successful  int
		failed      int
		recipeNames []string
	)

	for _, recipeID := range recipeIDs {
		recipeID := recipeID
		wg.Add(1)
		go func() {
			defer wg.Done()

			var recipe models.Recipe
			if err := gormDB.Where("id = ?", recipeID).First(&recipe).Error; err != nil {
				slog.Error("skipping order for missing recipe",
					"transaction_id", transaction.ID,
					"recipe_id", recipeID,
					"error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			order := models.Order{
				UserID:         transaction.UserID,
				RecipeID:       recipe.ID,
				Amount:         recipe.Price,
				DeliveryID:     transaction.DeliveryID,
				DeliveryStatus: models.DeliveryStatusPending,
				DurationRange:  "2-3 days",
				TransactionID:  transaction.ID,
			}
			if err := gormDB.Create(&order).Error; err != nil {
				slog.Error("failed to create order",
					"transaction_id", transaction.ID,
					"recipe_id", recipeID,
					"error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			successful++
			recipeNames = append(recipeNames, recipe.Name)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return OrderCounts{
		Total:      len(recipeIDs),
		Successful: successful,
		Failed:     failed,
	}, recipeNames
}

func publishOrderConfirmed(c *gin.Context, gormDB *gorm.DB, transaction *models.Transaction, counts OrderCounts, recipeNames []string) {
	worker := middleware.GetNotifier(c)
	if worker == nil {
		return
	}

	var adminUsers []models.User
	if err := gormDB.Joins("JOIN roles ON roles.id = users.role_id").Where("roles.name = ?", "admin").Find(&adminUsers).Error; err != nil {
		slog.Error("failed to load admin users for notification",
			"transaction_id", transaction.ID,
			"error", err)
	}
	adminEmails := make([]string, 0, len(adminUsers))
	for _, admin := range adminUsers {
		adminEmails = append(adminEmails, admin.Email)
	}

	customerName := transaction.Delivery.Name
	if customerName == "" {
		customerName = transaction.Email
	}

	worker.Publish(notifier.OrderConfirmedEvent{
		TransactionID: transaction.ID,
		Reference:     transaction.Reference,
		CustomerName:  customerName,
		CustomerEmail: transaction.Email,
		AdminEmails:   adminEmails,
		Amount:        transaction.Amount,
		RecipeNames:   recipeNames,
		OrdersCreated: counts.Successful,
		OrdersFailed:  counts.Failed,
	})
}

// markTransactionFailed is the best-effort cleanup on broken verification
// paths; its own failure is only logged.
func markTransactionFailed(gormDB *gorm.DB, transactionID uuid.UUID) {
	if err := gormDB.Model(&models.Transaction{}).Where("id = ?", transactionID).Update("status", models.TransactionFailed).Error; err != nil {
		slog.Error("failed to mark transaction as failed",
			"transaction_id", transactionID,
			"error", err)
	}
}
