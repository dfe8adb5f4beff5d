package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fooddash/fooddash-backend/config"
	"github.com/fooddash/fooddash-backend/internal/app/controller"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	"github.com/fooddash/fooddash-backend/internal/db"
	"github.com/fooddash/fooddash-backend/internal/metrics"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/router"
	"github.com/fooddash/fooddash-backend/internal/scheduler"
	"github.com/fooddash/fooddash-backend/internal/storage"
	ws "github.com/fooddash/fooddash-backend/internal/websocket"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	redisPkg "github.com/fooddash/fooddash-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
		Service:     "fooddash-backend",
	})

	logger.Info("Starting Food Dash Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and bootstrap seed
	if err := db.Migrate(&cfg.Bootstrap); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	metrics.Init()

	// Carts and the token blacklist live in Redis when it is enabled
	var (
		cartRepo  = repository.NewMemoryCartRepository()
		blacklist *redisPkg.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		if err := redisPkg.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redisPkg.Close()
		cartRepo = repository.NewRedisCartRepository(redisPkg.GetClient(), cfg.Redis.CartTTL)
		blacklist = redisPkg.NewTokenBlacklist(redisPkg.GetClient())
	} else {
		logger.Warn("Redis disabled, carts are kept in memory and logout is stateless")
	}

	// Receipt storage and menu image uploads
	var (
		receiptStore storage.ReceiptStore = storage.NewLocalReceiptStore(cfg.Order.ReceiptDir)
		uploader     controller.ImageUploader
	)
	if cfg.S3.Configured() {
		s3Storage := storage.NewS3Storage(cfg.S3)
		uploader = s3Storage
		if cfg.Order.ReceiptStore == "s3" {
			receiptStore = s3Storage
		}
	} else if cfg.Order.ReceiptStore == "s3" {
		logger.Warn("RECEIPT_STORE=s3 but S3 is not configured, writing receipts locally", map[string]interface{}{
			"receipt_dir": cfg.Order.ReceiptDir,
		})
	}

	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	database := db.GetDB()
	customerRepo := repository.NewCustomerRepository(database)
	staffRepo := repository.NewStaffRepository(database)
	adminRepo := repository.NewAdminRepository(database)
	menuRepo := repository.NewMenuRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	activityRepo := repository.NewActivityRepository(database)

	// Initialize services
	activityService := service.NewActivityService(activityRepo)
	accountService := service.NewAccountService(customerRepo, staffRepo, adminRepo, activityService)

	var revoker service.TokenRevoker
	if blacklist != nil {
		revoker = blacklist
	}
	authService := service.NewAuthService(
		customerRepo,
		staffRepo,
		adminRepo,
		activityService,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	menuService := service.NewMenuService(menuRepo, activityService, cfg.Order.CurrencySymbol)
	cartService := service.NewCartService(cartRepo, menuRepo, cfg.Order.CurrencySymbol)
	receiptService := service.NewReceiptService(receiptStore, cfg.Order.CurrencySymbol)
	orderService := service.NewOrderService(database, orderRepo, cfg.Order.DeliveryFee, receiptService, hub)
	analyticsService := service.NewAnalyticsService(orderRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, accountService)
	menuController := controller.NewMenuController(menuService, accountService, uploader)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, cartService, accountService)
	analyticsController := controller.NewAnalyticsController(analyticsService)
	activityController := controller.NewActivityController(activityService, accountService)
	adminController := controller.NewAdminController(accountService)
	wsController := controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	var revocations middleware.RevocationChecker
	if blacklist != nil {
		revocations = blacklist
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revocations)

	// Setup router
	r := router.NewRouter(
		authController,
		menuController,
		cartController,
		orderController,
		analyticsController,
		activityController,
		adminController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	var reportScheduler *scheduler.ReportScheduler
	if cfg.Scheduler.Enabled {
		reportScheduler = scheduler.NewReportScheduler(cfg.Scheduler, activityService, analyticsService)
		if err := reportScheduler.Start(); err != nil {
			logger.Fatal("Failed to start report scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if reportScheduler != nil {
		reportScheduler.Stop()
	}
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
