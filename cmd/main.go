package main

import (
	"gruago/internal/dashboard"
	"gruago/internal/handler"
	"gruago/internal/middleware"
	"gruago/internal/towing"
	"gruago/pkg/config"
	"gruago/pkg/database"
	"gruago/pkg/jwtutil"
	"gruago/pkg/logger"
	"gruago/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables. This
	// fails hard when the JWT signing key is missing.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting tow-dispatch service...", cfg.LogConfig()...)

	// Initialize database: one pool for the whole process
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Domain components share the pool by reference
	lifecycle := towing.NewLifecycle(db)
	lifecycle.StrictOrder = cfg.Lifecycle.StrictOrder
	reporter := dashboard.NewReporter(db)

	authHandler := handler.NewAuthHandler(db)
	tenantHandler := handler.NewTenantHandler(db)
	userHandler := handler.NewUserHandler(db)
	driverHandler := handler.NewDriverHandler(db)
	vehicleHandler := handler.NewVehicleHandler(db)
	serviceHandler := handler.NewServiceHandler(db)
	towRequestHandler := handler.NewTowRequestHandler(db, lifecycle)
	ratingHandler := handler.NewRatingHandler(db)
	dashboardHandler := handler.NewDashboardHandler(reporter)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api")

	// Authentication routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authRequired := middleware.Auth(db)
	authProtected := auth.Group("", authRequired)
	authProtected.GET("/profile", authHandler.Profile)
	authProtected.PUT("/change-password", authHandler.ChangePassword)
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/verify", authHandler.Verify)

	// Tenant management: mutations are admin-only
	tenants := api.Group("/tenants", authRequired)
	tenants.GET("", tenantHandler.List)
	tenants.GET("/:id", tenantHandler.Get)
	tenants.POST("", tenantHandler.Create, middleware.RequireRole("admin"))
	tenants.PUT("/:id", tenantHandler.Update, middleware.RequireRole("admin"))
	tenants.DELETE("/:id", tenantHandler.Delete, middleware.RequireRole("admin"))

	users := api.Group("/users", authRequired)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	drivers := api.Group("/drivers", authRequired)
	drivers.GET("", driverHandler.List)
	drivers.GET("/tenant/:tenantId", driverHandler.ListByTenant, middleware.RequireTenant)
	drivers.GET("/:id", driverHandler.Get)
	drivers.POST("", driverHandler.Create)
	drivers.PUT("/:id", driverHandler.Update)
	drivers.DELETE("/:id", driverHandler.Delete)

	vehicles := api.Group("/vehicles", authRequired)
	vehicles.GET("", vehicleHandler.List)
	vehicles.GET("/driver/:driverId", vehicleHandler.ListByDriver)
	vehicles.GET("/:id", vehicleHandler.Get)
	vehicles.POST("", vehicleHandler.Create)
	vehicles.PUT("/:id", vehicleHandler.Update)
	vehicles.DELETE("/:id", vehicleHandler.Delete)

	services := api.Group("/services", authRequired)
	services.GET("", serviceHandler.List)
	services.GET("/tenant/:tenantId", serviceHandler.ListByTenant, middleware.RequireTenant)
	services.GET("/:id", serviceHandler.Get)
	services.POST("", serviceHandler.Create)
	services.PUT("/:id", serviceHandler.Update)
	services.DELETE("/:id", serviceHandler.Delete)

	towRequests := api.Group("/tow-requests", authRequired)
	towRequests.GET("", towRequestHandler.List)
	towRequests.GET("/tenant/:tenantId", towRequestHandler.ListByTenant, middleware.RequireTenant)
	towRequests.GET("/user/:userId", towRequestHandler.ListByUser)
	towRequests.GET("/driver/:driverId", towRequestHandler.ListByDriver)
	towRequests.GET("/:id", towRequestHandler.Get)
	towRequests.POST("", towRequestHandler.Create)
	towRequests.PUT("/:id", towRequestHandler.Update)
	towRequests.PATCH("/:id/status", towRequestHandler.UpdateStatus)
	towRequests.DELETE("/:id", towRequestHandler.Delete)

	ratings := api.Group("/ratings", authRequired)
	ratings.POST("", ratingHandler.Create)
	ratings.GET("/request/:requestId", ratingHandler.ListByRequest)

	dashboardGroup := api.Group("/dashboard", authRequired)
	dashboardGroup.GET("/metrics", dashboardHandler.Metrics)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
