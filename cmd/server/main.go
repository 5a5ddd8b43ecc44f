package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	partnerapp "github.com/retailcore/backend/internal/application/partner"
	purchasingapp "github.com/retailcore/backend/internal/application/purchasing"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/cache"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/event"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"github.com/retailcore/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting RetailCore Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)

	// Receiving session store: Redis when reachable, in-memory otherwise.
	// In-memory sessions do not survive a restart, which is acceptable for
	// development but not for multi-instance deployments.
	var sessionStore purchasing.ReceivingSessionStore
	redisStore, err := cache.NewRedisReceivingSessionStore(cfg.Redis, cfg.Receiving.SessionTTL)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory receiving session store", zap.Error(err))
		memStore := cache.NewInMemoryReceivingSessionStore(cfg.Receiving.SessionTTL)
		defer func() {
			_ = memStore.Close()
		}()
		sessionStore = memStore
	} else {
		log.Info("Redis receiving session store connected",
			zap.String("host", cfg.Redis.Host),
			zap.Duration("session_ttl", cfg.Receiving.SessionTTL),
		)
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		sessionStore = redisStore
	}

	// Event bus for domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(func(e shared.DomainEvent) {
		log.Info("Purchase order fully received",
			zap.String("order_id", e.AggregateID().String()),
			zap.String("tenant_id", e.TenantID().String()),
		)
	}, purchasing.EventTypePurchaseOrderCompleted)

	// Initialize application services
	purchaseOrderService := purchasingapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, storeRepo)
	receivingService := purchasingapp.NewReceivingService(purchaseOrderRepo, sessionStore)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	storeService := partnerapp.NewStoreService(storeRepo)

	purchaseOrderService.SetEventPublisher(eventBus)
	receivingService.SetEventPublisher(eventBus)

	// JWT service for authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	receivingHandler := handler.NewReceivingHandler(receivingService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	storeHandler := handler.NewStoreHandler(storeService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Purchasing routes
	purchasingRoutes := router.NewDomainGroup("purchasing", "/purchase-orders")
	purchasingRoutes.POST("", purchaseOrderHandler.Create)
	purchasingRoutes.GET("", purchaseOrderHandler.List)
	purchasingRoutes.GET("/stats/summary", purchaseOrderHandler.GetStatusSummary)
	purchasingRoutes.GET("/export", purchaseOrderHandler.Export)
	purchasingRoutes.GET("/:id", purchaseOrderHandler.GetByID)
	purchasingRoutes.PUT("/:id", purchaseOrderHandler.Update)
	purchasingRoutes.DELETE("/:id", purchaseOrderHandler.Delete)
	purchasingRoutes.POST("/:id/submit", purchaseOrderHandler.Submit)
	purchasingRoutes.POST("/:id/items", purchaseOrderHandler.AddLine)
	purchasingRoutes.PUT("/:id/items/:line_id", purchaseOrderHandler.UpdateLine)
	purchasingRoutes.DELETE("/:id/items/:line_id", purchaseOrderHandler.RemoveLine)
	purchasingRoutes.POST("/:id/costs", purchaseOrderHandler.AddCost)
	purchasingRoutes.DELETE("/:id/costs/:cost_id", purchaseOrderHandler.RemoveCost)

	// Receiving session routes nested under purchase orders
	purchasingRoutes.POST("/:id/receiving-sessions", receivingHandler.Begin)
	purchasingRoutes.GET("/:id/receiving-sessions/:session_id", receivingHandler.Get)
	purchasingRoutes.PUT("/:id/receiving-sessions/:session_id/lines/:line_id", receivingHandler.SetLineQuantity)
	purchasingRoutes.POST("/:id/receiving-sessions/:session_id/mark-all", receivingHandler.MarkAllReceived)
	purchasingRoutes.PUT("/:id/receiving-sessions/:session_id/costs", receivingHandler.SetAppliedCosts)
	purchasingRoutes.POST("/:id/receiving-sessions/:session_id/confirm", receivingHandler.Confirm)
	purchasingRoutes.DELETE("/:id/receiving-sessions/:session_id", receivingHandler.Cancel)

	// Supplier routes
	supplierRoutes := router.NewDomainGroup("suppliers", "/suppliers")
	supplierRoutes.POST("", supplierHandler.Create)
	supplierRoutes.GET("", supplierHandler.List)
	supplierRoutes.GET("/:id", supplierHandler.GetByID)
	supplierRoutes.PUT("/:id", supplierHandler.Update)
	supplierRoutes.DELETE("/:id", supplierHandler.Delete)
	supplierRoutes.POST("/:id/activate", supplierHandler.Activate)
	supplierRoutes.POST("/:id/deactivate", supplierHandler.Deactivate)

	// Store routes
	storeRoutes := router.NewDomainGroup("stores", "/stores")
	storeRoutes.POST("", storeHandler.Create)
	storeRoutes.GET("", storeHandler.List)
	storeRoutes.GET("/:id", storeHandler.GetByID)
	storeRoutes.PUT("/:id", storeHandler.Update)
	storeRoutes.DELETE("/:id", storeHandler.Delete)
	storeRoutes.POST("/:id/open", storeHandler.Open)
	storeRoutes.POST("/:id/close", storeHandler.Close)

	r.Register(purchasingRoutes).
		Register(supplierRoutes).
		Register(storeRoutes)

	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
