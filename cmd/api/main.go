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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"buildcost/internal/analytics"
	"buildcost/internal/cache"
	"buildcost/internal/config"
	"buildcost/internal/database"
	_ "buildcost/internal/docs" // Import swagger docs
	"buildcost/internal/events"
	"buildcost/internal/export"
	"buildcost/internal/handlers"
	"buildcost/internal/logger"
	"buildcost/internal/middleware"
	"buildcost/internal/money"
	"buildcost/internal/services"
	"buildcost/internal/validator"
)

// @title           BuildCost API
// @version         1.0
// @description     BuildCost tracks home construction expenses: record costs against categories and people, filter and chart them, and export CSV or PDF reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	snapshots := newSnapshotCache(appConfig)
	publisher := newPublisher(appConfig)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("event publisher close error: %v", err)
		}
	}()

	formatter := money.NewFormatter(appConfig.CurrencySymbol, appConfig.ExportLocale)
	var fonts export.FontLoader
	if appConfig.PDFFontURL != "" {
		fonts = export.NewHTTPFontLoader(appConfig.PDFFontURL)
	}
	renderer := export.NewPDFRenderer(formatter, appConfig.CurrencyFallbackSymbol, fonts)

	// Services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	expenseService := services.NewExpenseService(db, snapshots, publisher)
	vendorService := services.NewVendorService(db, snapshots)
	categoryService := services.NewCategoryService(db, snapshots)
	loader := services.NewSnapshotLoader(db, snapshots, appConfig.SnapshotCacheTTL)
	dashboardService := services.NewDashboardService(loader, analytics.NewSuggester(formatter))
	exportService := services.NewExportService(loader, renderer, formatter, appConfig.ExportTimeout)

	// Handlers
	h := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(userService, auditService),
		Expense:   handlers.NewExpenseHandler(expenseService, auditService),
		Vendor:    handlers.NewVendorHandler(vendorService, auditService),
		Category:  handlers.NewCategoryHandler(categoryService, auditService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Export:    handlers.NewExportHandler(exportService, auditService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(appConfig.CORSAllowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.Register(router.Group("/api/v1"), middleware.AuthMiddleware())

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting BuildCost server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSnapshotCache connects to Redis when configured and falls back to an
// in-process cache otherwise.
func newSnapshotCache(cfg *config.Config) cache.SnapshotCache {
	log := logger.Get()
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-process snapshot cache")
		return cache.NewMemory()
	}
	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Warnw("redis unavailable, using in-process snapshot cache", "error", err)
		return cache.NewMemory()
	}
	return cache.NewRedis(client)
}

// newPublisher connects to the AMQP broker when configured. Without one,
// expense events are dropped.
func newPublisher(cfg *config.Config) events.Publisher {
	log := logger.Get()
	if cfg.AMQPURL == "" {
		return events.Noop{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Warnw("amqp unavailable, expense events disabled", "error", err)
		return events.Noop{}
	}
	return publisher
}
