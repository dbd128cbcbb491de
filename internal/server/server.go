package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/config"
	"github.com/ProsperCoded/nourish-box-sub000/internal/gateway"
	"github.com/ProsperCoded/nourish-box-sub000/internal/handlers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/mailer"
	"github.com/ProsperCoded/nourish-box-sub000/internal/middleware"
	"github.com/ProsperCoded/nourish-box-sub000/internal/notifier"
	"github.com/ProsperCoded/nourish-box-sub000/internal/telemetry"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	telemetry.InitLogger()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	paystackClient := gateway.NewPaystackClient(cfg.PaystackSecretKey)

	notificationWorker := notifier.NewWorker(mailer.New(), 64)
	notificationWorker.Start()
	defer notificationWorker.Stop()

	r := gin.Default()

	setupRoutes(r, db, paystackClient, notificationWorker)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, paystackClient *gateway.PaystackClient, notificationWorker *notifier.Worker) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaystackMiddleware(paystackClient))
	r.Use(middleware.NotifierMiddleware(notificationWorker))

	r.Static("/uploads", "./uploads")

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		recipePublic := public.Group("/recipes")
		{
			recipePublic.GET("", handlers.ListRecipes)
			recipePublic.GET("/:id", handlers.GetRecipe)
		}

		public.GET("/categories", handlers.ListCategories)

		// The gateway redirects back here after checkout, before the
		// customer has necessarily re-authenticated.
		public.GET("/payments/verify", handlers.VerifyPayment)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		cart := protected.Group("/cart")
		{
			cart.GET("", handlers.ListCartItems)
			cart.POST("", handlers.AddCartItem)
			cart.PUT("/:recipeId", handlers.UpdateCartItem)
			cart.DELETE("/:recipeId", handlers.RemoveCartItem)
		}

		deliveries := protected.Group("/deliveries")
		{
			deliveries.GET("", handlers.ListMyDeliveries)
			deliveries.POST("", handlers.CreateDelivery)
			deliveries.GET("/:id", handlers.GetDelivery)
		}

		protected.POST("/transactions/initialize", handlers.InitializeCheckout)
		protected.GET("/orders", handlers.ListMyOrders)
		protected.GET("/profile", handlers.GetProfile)
	}

	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminMiddleware())
	{
		recipeAdmin := admin.Group("/recipes")
		{
			recipeAdmin.POST("", handlers.CreateRecipe)
			recipeAdmin.PUT("/:id", handlers.UpdateRecipe)
			recipeAdmin.DELETE("/:id", handlers.DeleteRecipe)
		}

		categoryAdmin := admin.Group("/categories")
		{
			categoryAdmin.POST("", handlers.CreateCategory)
			categoryAdmin.PUT("/:id", handlers.UpdateCategory)
			categoryAdmin.DELETE("/:id", handlers.DeleteCategory)
		}

		orderAdmin := admin.Group("/admin/orders")
		{
			orderAdmin.GET("", handlers.ListAllOrders)
			orderAdmin.PATCH("/:id/status", handlers.UpdateOrderStatus)
			orderAdmin.GET("/:id/qr", handlers.GenerateDeliveryQR)
			orderAdmin.POST("/confirm-delivery", handlers.ConfirmDelivery)
		}

		userAdmin := admin.Group("/users")
		{
			userAdmin.GET("", handlers.ListUsers)
			userAdmin.PUT("/:id/role", handlers.UpdateUserRole)
		}
	}
}
