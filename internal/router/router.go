// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/chat"
	"github.com/shoplane/shoplane-backend/internal/config"
	"github.com/shoplane/shoplane-backend/internal/handlers"
	"github.com/shoplane/shoplane-backend/internal/middleware"
	"github.com/shoplane/shoplane-backend/internal/services"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, gateway *chat.Gateway) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(cfg)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	orderService := services.NewOrderService(db, paymentService)
	reviewService := services.NewReviewService(db)
	inquiryService := services.NewInquiryService(db)
	newsletterService := services.NewNewsletterService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/profile", middleware.AuthRequired(), authHandler.UpdateProfile)
			auth.DELETE("/account", middleware.AuthRequired(), authHandler.DeleteAccount)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/reviews", reviewHandler.GetProductReviews)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/upload-image", productHandler.UploadProductImage)
			}
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			protected := categories.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.PUT("/:id", categoryHandler.UpdateCategory)
				protected.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetMyOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthRequired())
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.PUT("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
		}

		// Inquiry routes
		inquiries := v1.Group("/inquiries")
		inquiries.Use(middleware.AuthRequired())
		{
			inquiries.POST("", inquiryHandler.CreateInquiry)
			inquiries.GET("", inquiryHandler.GetMyInquiries)
			inquiries.GET("/:id", inquiryHandler.GetInquiry)
		}

		// Newsletter routes
		newsletter := v1.Group("/newsletter")
		{
			newsletter.POST("/subscribe", middleware.OptionalAuth(), newsletterHandler.Subscribe)
			newsletter.GET("/confirm/:token", newsletterHandler.Confirm)
			newsletter.PUT("/:id/preferences", newsletterHandler.UpdatePreferences)
			newsletter.POST("/:id/unsubscribe", newsletterHandler.Unsubscribe)
		}

		// Chat gateway
		v1.GET("/chat/ws", gateway.ServeWS)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", orderHandler.GetAllOrders)
				adminOrders.GET("/export", orderHandler.ExportOrders)
				adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				adminOrders.DELETE("/:id", orderHandler.DeleteOrder)
			}

			adminInquiries := admin.Group("/inquiries")
			{
				adminInquiries.GET("", inquiryHandler.GetAllInquiries)
				adminInquiries.PUT("/:id/resolve", inquiryHandler.ResolveInquiry)
				adminInquiries.DELETE("/:id", inquiryHandler.DeleteInquiry)
			}

			adminNewsletter := admin.Group("/newsletter")
			{
				adminNewsletter.GET("", newsletterHandler.GetSubscriptions)
				adminNewsletter.GET("/export", newsletterHandler.ExportSubscriptions)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
