package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ProsperCoded/nourish-box-sub000/internal/notifier"
)

func NotifierMiddleware(worker *notifier.Worker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("notifier", worker)
		c.Next()
	}
}

func GetNotifier(c *gin.Context) *notifier.Worker {
	worker, exists := c.Get("notifier")
	if !exists {
		return nil
	}
	return worker.(*notifier.Worker)
}
