package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/gateway"
	"github.com/ProsperCoded/nourish-box-sub000/internal/middleware"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
	"github.com/ProsperCoded/nourish-box-sub000/internal/notifier"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test, pinned to a single
	// connection so every goroutine sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Recipe{},
		&models.CartItem{},
		&models.Delivery{},
		&models.Transaction{},
		&models.TransactionRecipe{},
		&models.Order{},
	))

	return db
}

func seedTestRoles(t *testing.T, db *gorm.DB) (admin models.Role, customer models.Role) {
	t.Helper()
	admin = models.Role{Name: "admin"}
	customer = models.Role{Name: "customer"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&customer).Error)
	return admin, customer
}

func createTestRecipe(t *testing.T, db *gorm.DB, name string, price int) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Servings:    2,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func createTestDelivery(t *testing.T, db *gorm.DB, name string) models.Delivery {
	t.Helper()
	delivery := models.Delivery{
		Name:    name,
		Email:   "customer@example.com",
		Phone:   "08012345678",
		Address: "12 Test Street",
		City:    "Lagos",
		State:   "Lagos",
	}
	require.NoError(t, db.Create(&delivery).Error)
	return delivery
}

// paystackStub is a fake gateway. The response handler is swappable per test
// and verify calls are counted, so tests can assert the gateway was never
// consulted on short-circuit paths.
type paystackStub struct {
	server      *httptest.Server
	verifyCalls int32
	respond     func(w http.ResponseWriter, r *http.Request)
}

func newPaystackStub(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*paystackStub, *gateway.PaystackClient) {
	t.Helper()
	stub := &paystackStub{respond: respond}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/transaction/verify/") {
			atomic.AddInt32(&stub.verifyCalls, 1)
		}
		stub.respond(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub, gateway.NewPaystackClientWithBaseURL("sk_test_secret", stub.server.URL)
}

func respondVerifySuccess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{
		"status": true,
		"message": "Verification successful",
		"data": {
			"status": "success",
			"reference": "`+strings.TrimPrefix(r.URL.Path, "/transaction/verify/")+`",
			"amount": 12000,
			"channel": "card",
			"paid_at": "2024-01-01T00:00:00Z",
			"customer": {"email": "customer@example.com", "first_name": "Ada", "last_name": "Obi"}
		}
	}`)
}

func newPaymentRouter(db *gorm.DB, paystackClient *gateway.PaystackClient, worker *notifier.Worker) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaystackMiddleware(paystackClient))
	if worker != nil {
		r.Use(middleware.NotifierMiddleware(worker))
	}
	r.GET("/v1/payments/verify", VerifyPayment)
	return r
}

// authAs stubs the JWT middleware for handler tests.
func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}
