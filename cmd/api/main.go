package main

import (
	"context"
	"log"
	"os"

	_ "sigrap/api/swagger" // swagger docs
	"sigrap/internal/authz"
	"sigrap/internal/database"
	"sigrap/internal/handler"
	"sigrap/internal/logger"
	"sigrap/internal/middleware"
	"sigrap/internal/repository"
	"sigrap/internal/service"
	"sigrap/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           SIGRAP Stationery Store API
// @version         1.0
// @description     Inventory, purchasing, sales and staff management backend for a stationery store.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "sigrap")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("connected to PostgreSQL")

	// Authorization policy: built once, immutable for the process lifetime
	policy := authz.DefaultPolicy()
	evaluator := authz.NewEvaluator(policy)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	reportRepo := repository.NewReportRepository(db)

	userService := service.NewUserService(userRepo, roleRepo, evaluator)
	roleService := service.NewRoleService(roleRepo, policy, txManager, zlog)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, activityRepo, txManager, wsHub, zlog)
	customerService := service.NewCustomerService(customerRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	orderService := service.NewPurchaseOrderService(orderRepo, supplierRepo, productRepo, paymentRepo, activityRepo, txManager, wsHub, zlog)
	paymentService := service.NewPaymentService(paymentRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, activityRepo, txManager, wsHub, zlog)
	activityService := service.NewActivityService(activityRepo)
	reportService := service.NewReportService(reportRepo)

	// Materialize the built-in roles and their permission rows
	if err := roleService.SeedDefaults(context.Background()); err != nil {
		zlog.Fatal("failed to seed system roles", zap.Error(err))
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService, evaluator)
	userHandler := handler.NewUserHandler(userService, evaluator)
	roleHandler := handler.NewRoleHandler(roleService, evaluator)
	catalogHandler := handler.NewCatalogHandler(catalogService, evaluator)
	customerHandler := handler.NewCustomerHandler(customerService, evaluator)
	supplierHandler := handler.NewSupplierHandler(supplierService, evaluator)
	employeeHandler := handler.NewEmployeeHandler(employeeService, evaluator)
	orderHandler := handler.NewPurchaseOrderHandler(orderService, evaluator)
	paymentHandler := handler.NewPaymentHandler(paymentService, evaluator)
	saleHandler := handler.NewSaleHandler(saleService, evaluator)
	activityHandler := handler.NewActivityHandler(activityService, evaluator)
	reportHandler := handler.NewReportHandler(reportService, evaluator)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4200"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	roleHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	supplierHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	paymentHandler.RegisterRoutes(api)
	saleHandler.RegisterRoutes(api)
	activityHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)

	port := envOr("PORT", "8080")
	zlog.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
