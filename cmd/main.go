package main

import (
	"salesboard/internal/board"
	"salesboard/internal/handler"
	"salesboard/internal/middleware"
	"salesboard/internal/salesforce"
	"salesboard/internal/store"
	"salesboard/pkg/config"
	"salesboard/pkg/database"
	"salesboard/pkg/jwtutil"
	"salesboard/pkg/logger"
	"salesboard/pkg/storage"
	"salesboard/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "salesboard",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting sales board service...", zap.String("environment", cfg.Server.Env))

	// Select the snapshot backend. Postgres is the default; the memory driver
	// runs the whole service in-process for demos.
	var adapter storage.Adapter
	if cfg.Storage.Driver == "memory" {
		adapter = storage.NewMemory()
		log.Info("Using in-memory snapshot storage")
	} else {
		if err := database.Initialize(database.DBConfig{
			DSN:             cfg.DB.GetDSN(),
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
			LogLevel:        cfg.DB.LogLevel,
		}); err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		adapter = storage.NewGormAdapter(database.GetDB())
		log.Info("Database connection established")
	}

	// Initialize JWT utility
	jwtutil.Initialize(cfg.JWT.SigningKey, cfg.JWT.ExpirationHours)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Build the stores. Each one seeds itself when its namespace has no
	// snapshot yet.
	authStore, err := store.NewAuthStore(adapter, cfg.Auth.DemoPassword, log)
	if err != nil {
		log.Fatal("Failed to initialize auth store", zap.Error(err))
	}
	pathStore, err := store.NewActionPathStore(adapter, log)
	if err != nil {
		log.Fatal("Failed to initialize action path store", zap.Error(err))
	}
	tagStore, err := store.NewTagStore(adapter, log)
	if err != nil {
		log.Fatal("Failed to initialize tag store", zap.Error(err))
	}
	assigneeStore, err := store.NewAssigneeStore(adapter, log)
	if err != nil {
		log.Fatal("Failed to initialize assignee store", zap.Error(err))
	}

	sessions := board.NewSessions(pathStore, log)
	sfClient := salesforce.NewClient(cfg.Salesforce.ExportURL, cfg.Salesforce.Timeout)

	authHandler := handler.NewAuthHandler(authStore, sessions)
	boardHandler := handler.NewBoardHandler(authStore, sessions)
	companyHandler := handler.NewCompanyHandler(authStore)
	tagHandler := handler.NewTagHandler(tagStore)
	assigneeHandler := handler.NewAssigneeHandler(assigneeStore)
	pathHandler := handler.NewActionPathHandler(pathStore, sfClient)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover()) // Add recovery middleware
	e.Use(echomiddleware.CORS())    // Add CORS middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/last-login", authHandler.LastLogin)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/profile", authHandler.Profile)

	// Tag management
	tags := api.Group("/tags")
	tags.GET("", tagHandler.List)
	tags.POST("", tagHandler.Create)
	tags.PATCH("/:id", tagHandler.Update)
	tags.DELETE("/:id", tagHandler.Delete)

	// Assignee management
	assignees := api.Group("/assignees")
	assignees.GET("", assigneeHandler.List)
	assignees.POST("", assigneeHandler.Create)
	assignees.PATCH("/:id", assigneeHandler.Update)
	assignees.DELETE("/:id", assigneeHandler.Delete)
	assignees.POST("/import", assigneeHandler.Import)

	// Action path catalog and CRUD
	paths := api.Group("/action-paths")
	paths.GET("/config", pathHandler.Config)
	paths.GET("", pathHandler.List)
	paths.GET("/:id", pathHandler.Get)
	paths.POST("", pathHandler.Create)
	paths.PATCH("/:id", pathHandler.Update)
	paths.DELETE("/:id", pathHandler.Delete)
	paths.POST("/:id/export", pathHandler.Export)
	paths.POST("/territories", pathHandler.CreateTerritory)
	paths.PATCH("/territories/:id", pathHandler.UpdateTerritory)
	paths.DELETE("/territories/:id", pathHandler.DeleteTerritory)
	paths.POST("/products", pathHandler.CreateProduct)
	paths.PATCH("/products/:id", pathHandler.UpdateProduct)
	paths.DELETE("/products/:id", pathHandler.DeleteProduct)

	// Company management - admin only for mutations
	companies := api.Group("/companies")
	companies.GET("", companyHandler.List)
	companies.GET("/:id", companyHandler.Get)
	companies.POST("", companyHandler.Create, middleware.RequireAdmin)
	companies.POST("/:id/users", companyHandler.AddUser, middleware.RequireAdmin)
	companies.DELETE("/:id/users/:email", companyHandler.RemoveUser, middleware.RequireAdmin)
	companies.PATCH("/:id/users/:email", companyHandler.UpdateUser, middleware.RequireAdmin)
	companies.PUT("/:id/salesforce-credentials", companyHandler.UpdateSalesforceCredentials, middleware.RequireAdmin)
	companies.PUT("/:id/logo", companyHandler.UpdateLogo, middleware.RequireAdmin)
	companies.PUT("/:id/license", companyHandler.UpdateLicense, middleware.RequireAdmin)
	companies.PUT("/:id/default-path", companyHandler.UpdateDefaultPath, middleware.RequireAdmin)

	// Board session - the per-user working copy and its mutations
	b := api.Group("/board")
	b.GET("", boardHandler.State)
	b.POST("/select", boardHandler.Select)
	b.POST("/actions", boardHandler.AddAction)
	b.DELETE("/actions/:id", boardHandler.DeleteAction)
	b.PUT("/actions/:id/assignee", boardHandler.SetAssignee)
	b.PUT("/actions/:id/tags", boardHandler.SetTags)
	b.PUT("/actions/:id/date", boardHandler.SetDate)
	b.POST("/drag-over", boardHandler.DragOver)
	b.POST("/drag-end", boardHandler.DragEnd)
	b.POST("/save", boardHandler.Save)
	b.POST("/save-as-new", boardHandler.SaveAsNew)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
