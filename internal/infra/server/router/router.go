// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finly/backend/internal/integration/entrypoint/controller"
	"github.com/finly/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	userController        *controller.UserController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	receiptController     *controller.ReceiptController
	loginRateLimiter      *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	receiptController *controller.ReceiptController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		authController:        authController,
		userController:        userController,
		categoryController:    categoryController,
		transactionController: transactionController,
		receiptController:     receiptController,
		loginRateLimiter:      loginRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(middleware.Metrics())

	r.setupOpsRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupOpsRoutes configures health check and metrics endpoints.
func (r *Router) setupOpsRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", r.authController.Register)
		auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", r.authController.Logout)
	}

	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	users := protected.Group("/users")
	{
		users.GET("/me", r.userController.GetProfile)
		users.PATCH("/me", r.userController.UpdateProfile)
		users.DELETE("/me", r.userController.DeactivateAccount)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", r.categoryController.List)
		categories.GET("/:id", r.categoryController.Get)
		categories.POST("", r.categoryController.Create)
		categories.PATCH("/:id", r.categoryController.Update)
		categories.DELETE("/:id", r.categoryController.Delete)
	}

	// Static segments are registered before /:id; gin prefers them either way.
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", r.transactionController.List)
		transactions.GET("/stats", r.transactionController.Stats)
		transactions.GET("/export", r.transactionController.Export)
		transactions.POST("/bulk-delete", r.transactionController.BulkDelete)
		transactions.GET("/:id", r.transactionController.Get)
		transactions.POST("", r.transactionController.Create)
		transactions.PATCH("/:id", r.transactionController.Update)
		transactions.DELETE("/:id", r.transactionController.Delete)
	}

	receipts := protected.Group("/receipts")
	{
		receipts.POST("/scan", r.receiptController.Scan)
		receipts.POST("/text", r.receiptController.ProcessText)
		receipts.GET("/formats", r.receiptController.Formats)
	}
}
