package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	designapp "github.com/podsync/backend/internal/application/design"
	identityapp "github.com/podsync/backend/internal/application/identity"
	listingapp "github.com/podsync/backend/internal/application/listing"
	mockupapp "github.com/podsync/backend/internal/application/mockup"
	"github.com/podsync/backend/internal/infrastructure/auth"
	"github.com/podsync/backend/internal/infrastructure/cache"
	"github.com/podsync/backend/internal/infrastructure/config"
	"github.com/podsync/backend/internal/infrastructure/logger"
	"github.com/podsync/backend/internal/infrastructure/persistence"
	"github.com/podsync/backend/internal/infrastructure/printful"
	"github.com/podsync/backend/internal/infrastructure/shopify"
	"github.com/podsync/backend/internal/interfaces/http/handler"
	"github.com/podsync/backend/internal/interfaces/http/middleware"
	"github.com/podsync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting podsync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	taskRepo := persistence.NewGormMockupTaskRepository(db.DB)
	resultRepo := persistence.NewGormMockupResultRepository(db.DB)

	// Catalog variant cache: Redis with in-memory fallback
	var catalogCache cache.CatalogCache
	redisCache, err := cache.NewRedisCatalogCache(cfg.Redis, cfg.Pipeline.CacheTTL)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory catalog cache", zap.Error(err))
		catalogCache = cache.NewInMemoryCatalogCache(cfg.Pipeline.CacheTTL)
	} else {
		catalogCache = redisCache
	}

	// Platform adapters
	provider, err := printful.NewClient(printful.NewConfig(cfg.Provider), log)
	if err != nil {
		log.Fatal("Failed to create provider client", zap.Error(err))
	}
	storefront, err := shopify.NewClient(shopify.NewConfig(cfg.Storefront), log)
	if err != nil {
		log.Fatal("Failed to create storefront client", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	templateService := designapp.NewTemplateService(templateRepo, provider, designapp.ResolverConfig{
		BaseDelay:   cfg.Pipeline.ResolverBaseDelay,
		MaxDelay:    cfg.Pipeline.ResolverMaxDelay,
		MaxAttempts: cfg.Pipeline.ResolverMaxAttempts,
	}, log)
	taskService := mockupapp.NewTaskService(taskRepo, resultRepo, templateRepo, provider, mockupapp.PollConfig{
		Interval:    cfg.Pipeline.PollInterval,
		MaxAttempts: cfg.Pipeline.PollMaxAttempts,
	}, log)
	productService := listingapp.NewProductService(
		templateRepo, taskRepo, resultRepo, provider, storefront, catalogCache,
		listingapp.Config{
			Margin:       decimal.NewFromFloat(cfg.Pipeline.Margin),
			VariantChunk: cfg.Storefront.VariantChunk,
			MediaBatch:   cfg.Storefront.MediaBatch,
		}, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	templateHandler := handler.NewTemplateHandler(templateService)
	mockupHandler := handler.NewMockupHandler(taskService)
	catalogHandler := handler.NewCatalogHandler(productService)
	productHandler := handler.NewProductHandler(productService)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check outside API versioning
	engine.GET("/health", healthHandler.Check)

	authMiddleware := middleware.JWTAuthMiddleware(jwtService)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.HealthRoutes(healthHandler)).
		Register(handler.AuthRoutes(authHandler, authMiddleware)).
		Register(handler.TemplateRoutes(templateHandler, authMiddleware)).
		Register(handler.MockupRoutes(mockupHandler, authMiddleware)).
		Register(handler.CatalogRoutes(catalogHandler, authMiddleware)).
		Register(handler.ProductRoutes(productHandler, authMiddleware))
	r.Setup()

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
