// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finly/backend/config"
	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/application/usecase/analytics"
	"github.com/finly/backend/internal/application/usecase/auth"
	"github.com/finly/backend/internal/application/usecase/category"
	"github.com/finly/backend/internal/application/usecase/receipt"
	"github.com/finly/backend/internal/application/usecase/report"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/application/usecase/user"
	"github.com/finly/backend/internal/infra/db"
	"github.com/finly/backend/internal/infra/server/router"
	"github.com/finly/backend/internal/integration/adapters"
	"github.com/finly/backend/internal/integration/entrypoint/controller"
	"github.com/finly/backend/internal/integration/entrypoint/middleware"
	"github.com/finly/backend/internal/integration/persistence"
	pdfreport "github.com/finly/backend/internal/integration/report"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	OCR    adapter.OCRService
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(gormDB)
	categoryRepo := persistence.NewCategoryRepository(gormDB)
	transactionRepo := persistence.NewTransactionRepository(gormDB)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(&cfg.JWT, adapters.NewRedisTokenStore(redisClient))
	ocrService := adapters.NewOCRClient(cfg.OCR.ServiceURL, cfg.OCR.Timeout)
	renderer := pdfreport.NewPDFRenderer()

	storage, err := adapters.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	patterns, err := receipt.LoadPatternTable(cfg.Suggestion.PatternsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load category patterns: %w", err)
	}
	if name := strings.TrimSpace(cfg.Suggestion.FallbackName); name != "" {
		patterns.Fallback = name
	}
	suggester := receipt.NewCategorySuggester(categoryRepo, patterns)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create user use cases
	getProfileUseCase := user.NewGetProfileUseCase(userRepo)
	updateProfileUseCase := user.NewUpdateProfileUseCase(userRepo)
	deactivateUseCase := user.NewDeactivateAccountUseCase(userRepo, tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	getCategoryUseCase := category.NewGetCategoryUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, transactionRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, transactionRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)
	bulkDeleteTransactionsUseCase := transaction.NewBulkDeleteTransactionsUseCase(transactionRepo)
	statisticsUseCase := analytics.NewGetStatisticsUseCase(transactionRepo)
	exportUseCase := report.NewExportTransactionsUseCase(transactionRepo, userRepo, renderer, cfg.Export.MaxRows)

	// Create receipt use cases
	scanReceiptUseCase := receipt.NewScanReceiptUseCase(ocrService, storage, suggester, cfg.OCR.MaxUploadBytes)
	processTextUseCase := receipt.NewProcessTextUseCase(ocrService, suggester)

	// Create controllers
	database := db.NewDatabase(gormDB)
	healthController := controller.NewHealthController(
		database.Ping,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		ocrService.HealthCheck,
	)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	userController := controller.NewUserController(
		getProfileUseCase,
		updateProfileUseCase,
		deactivateUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		getCategoryUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getTransactionUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		bulkDeleteTransactionsUseCase,
		statisticsUseCase,
		exportUseCase,
	)

	receiptController := controller.NewReceiptController(
		scanReceiptUseCase,
		processTextUseCase,
		cfg.OCR.MaxUploadBytes,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		userController,
		categoryController,
		transactionController,
		receiptController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     gormDB,
		Redis:  redisClient,
		OCR:    ocrService,
		Router: r,
	}, nil
}
