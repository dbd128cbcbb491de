package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ProsperCoded/nourish-box-sub000/internal/gateway"
)

func PaystackMiddleware(paystackClient *gateway.PaystackClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("paystack_client", paystackClient)
		c.Next()
	}
}

func GetPaystackClient(c *gin.Context) *gateway.PaystackClient {
	client, exists := c.Get("paystack_client")
	if !exists {
		return nil
	}
	return client.(*gateway.PaystackClient)
}
