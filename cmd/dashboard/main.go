package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-dashboard/internal/auth"
	"inventory-dashboard/internal/client"
	"inventory-dashboard/internal/config"
	"inventory-dashboard/internal/handlers"
	"inventory-dashboard/internal/notify"
	"inventory-dashboard/internal/poller"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/viewmodel"
	"inventory-dashboard/pkg/logger"
	"inventory-dashboard/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting Inventory Dashboard",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	appLogger.Info("📦 Upstream Inventory API",
		zap.String("base_url", cfg.InventoryAPIURL),
		zap.Duration("timeout", cfg.HTTPClientTimeout),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	appLogger.Info("📊 View-model defaults",
		zap.Int("page_size", cfg.PageSize),
		zap.Int("low_stock_threshold", cfg.LowStockThreshold),
		zap.Int("top_products_limit", cfg.TopProductsLimit),
	)

	if cfg.UseRedis {
		appLogger.Info("💾 Session store (Redis)",
			zap.String("redis_host", cfg.RedisHost),
			zap.String("redis_port", cfg.RedisPort),
		)
	} else {
		appLogger.Info("💾 Session store",
			zap.String("backend", "in-memory"),
			zap.String("note", "settings last for the process lifetime (USE_REDIS=false)"),
		)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session/settings store (Redis or in-memory fallback)
	store := session.NewStore(cfg, appLogger)

	// View-model; a previously persisted threshold wins over the configured
	// default.
	threshold := cfg.LowStockThreshold
	if persisted, err := session.GetInt(context.Background(), store, session.KeyThreshold); err == nil && persisted > 0 {
		appLogger.Info("Restored persisted low-stock threshold", zap.Int("threshold", persisted))
		threshold = persisted
	}
	vm := viewmodel.New(cfg.PageSize, threshold, cfg.TopProductsLimit)

	// Upstream client; restore its bearer token if a session survived a
	// restart.
	apiClient := client.New(cfg.InventoryAPIURL, cfg.HTTPClientTimeout, appLogger)
	if token, err := store.Get(context.Background(), session.KeyToken); err == nil && token != "" {
		apiClient.SetToken(token)
	}

	// Notification feed (toasts for the rendering layer)
	feed := notify.NewFeed(appLogger)

	// Poller: initial refresh, fixed-interval refresh, refresh after each
	// successful mutation.
	appLogger.Info("🔧 Starting poller...")
	refresher := poller.New(apiClient, vm, feed, appLogger, cfg.PollInterval)
	refresher.Start()
	defer refresher.Stop()

	// Initialize JWT manager and auth handler
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, appLogger)
	authHandler := auth.NewAuthHandler(apiClient, jwtManager, store, appLogger)

	// Dashboard handlers
	dashboardHandler := handlers.NewDashboardHandler(vm, refresher, feed, store, appLogger)

	// Initialize router
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))

	// Idempotency for mutation endpoints (double-submission guard)
	requestIDStore := middleware.NewInMemoryRequestIDStore()
	router.Use(middleware.IdempotencyMiddleware(requestIDStore, appLogger, 5*time.Minute))

	// Error handler middleware
	router.Use(middleware.ErrorHandler(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint (public)
		v1.GET("/health", healthCheck)

		// Auth endpoints (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}

		// Protected endpoints (require JWT authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, appLogger))
		{
			protected.GET("/dashboard/summary", dashboardHandler.GetSummary)
			protected.GET("/inventory", dashboardHandler.ListInventory)
			protected.GET("/activities", dashboardHandler.ListActivities)
			protected.GET("/notifications", dashboardHandler.GetNotifications)
			protected.GET("/settings/threshold", dashboardHandler.GetThreshold)
			protected.PUT("/settings/threshold", dashboardHandler.UpdateThreshold)

			// Mutations are admin-only, like the dashboard's edit controls
			adminOnly := protected.Group("/inventory/products")
			adminOnly.Use(middleware.RequireRole("admin", appLogger))
			{
				adminOnly.POST("", dashboardHandler.CreateProduct)
				adminOnly.PUT("/:name", dashboardHandler.UpdateProduct)
				adminOnly.DELETE("/:name", dashboardHandler.DeleteProduct)
			}
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("🌐 Starting HTTP server", zap.String("address", ":"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	refresher.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "inventory-dashboard",
	})
}
