package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/middleware"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.POST("/v1/register", Register)
	r.POST("/v1/login", Login)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload gin.H) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	seedTestRoles(t, db)
	router := newAuthRouter(db)

	w := postJSON(t, router, "/v1/register", gin.H{
		"name":     "Ada Obi",
		"email":    "ada@example.com",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Preload("Role").First(&user, "email = ?", "ada@example.com").Error)
	assert.Equal(t, "customer", user.Role.Name, "self-service registration is always a customer")
	assert.NotEqual(t, "sup3rsecret", user.Password, "password must be stored hashed")

	w = postJSON(t, router, "/v1/register", gin.H{
		"name":     "Ada Obi",
		"email":    "ada@example.com",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, router, "/v1/login", gin.H{
		"email":    "ada@example.com",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginBody struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginBody))
	assert.NotEmpty(t, loginBody.Token)
	assert.Equal(t, "customer", loginBody.User.Role)

	w = postJSON(t, router, "/v1/login", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
