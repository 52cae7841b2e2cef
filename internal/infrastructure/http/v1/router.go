// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/analytics"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/domain/transfer"
	"stockpilot/internal/infrastructure/http/v1/handlers"
	"stockpilot/internal/infrastructure/http/v1/middleware"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Logger    *logger.Logger
	JWTConfig auth.JWTConfig
	DevMode   bool
}

// NewRouter wires repositories, services, and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage
	itemRepo := postgres.NewInventoryRepo(cfg.TxManager)
	ledgerRepo := postgres.NewLedgerRepo(cfg.TxManager)
	summaryRepo := postgres.NewSummaryRepo(cfg.TxManager)
	authRepo := postgres.NewAuthRepo(cfg.TxManager)
	auditSvc, err := postgres.NewAuditService(cfg.TxManager)
	if err != nil {
		// zstd encoder creation only fails on invalid options
		panic(err)
	}

	// Domain services
	jwtService := auth.NewJWTService(cfg.JWTConfig)
	authService := auth.NewService(authRepo, jwtService)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo, cfg.TxManager, auditSvc)
	inventoryService := inventory.NewService(itemRepo, cfg.TxManager, ledgerService, ledgerRepo, auditSvc)
	analyticsService := analytics.NewService(itemRepo, ledgerRepo, summaryRepo)
	transferService := transfer.NewService(itemRepo, ledgerRepo, cfg.TxManager, auditSvc)

	// Handlers
	base := handlers.NewBaseHandler()
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	authHandler := handlers.NewAuthHandler(base, authService)
	inventoryHandler := handlers.NewInventoryHandler(base, inventoryService)
	txnHandler := handlers.NewTransactionHandler(base, ledgerService)
	analyticsHandler := handlers.NewAnalyticsHandler(base, analyticsService)
	transferHandler := handlers.NewTransferHandler(base, transferService)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(jwtService))
		{
			protected.GET("/inventory", inventoryHandler.List)
			protected.POST("/inventory", inventoryHandler.Create)
			protected.GET("/inventory/:id", inventoryHandler.Get)
			protected.PUT("/inventory/:id", inventoryHandler.Update)
			protected.DELETE("/inventory/:id", inventoryHandler.Delete)

			protected.GET("/transactions", txnHandler.List)
			protected.POST("/transactions", txnHandler.Create)
			protected.GET("/transactions/:id", txnHandler.Get)

			protected.GET("/stats", analyticsHandler.Stats)
			protected.GET("/daily-summaries", analyticsHandler.DailySummaries)

			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/export", transferHandler.Export)
				admin.POST("/import", transferHandler.Import)
			}
		}
	}

	return router
}
