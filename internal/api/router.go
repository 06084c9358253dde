package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitaltrack/health-system/internal/api/handler"
	"github.com/vitaltrack/health-system/internal/api/middleware"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
	"github.com/vitaltrack/health-system/internal/core/service"
	mongodb "github.com/vitaltrack/health-system/internal/infrastructure/db/mongo"
	redisdb "github.com/vitaltrack/health-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens ports.TokenService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("healthtrack"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	healthRepo := mongodb.NewHealthRepository(db)
	performanceRepo := mongodb.NewPerformanceRepository(db)
	anthropometricRepo := mongodb.NewAnthropometricRepository(db)
	reportRepo := mongodb.NewReportRepository(db)
	integrationRepo := mongodb.NewIntegrationRepository(db)
	shareCache := redisdb.NewShareCache(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	patientService := service.NewPatientService(userRepo, healthRepo, performanceRepo, anthropometricRepo, log)
	healthService := service.NewHealthService(healthRepo, userRepo, log)
	performanceService := service.NewPerformanceService(performanceRepo, userRepo, log)
	anthropometricService := service.NewAnthropometricService(anthropometricRepo, userRepo, log)
	reportService := service.NewReportService(reportRepo, healthRepo, performanceRepo, anthropometricRepo, userRepo, shareCache, log)
	integrationService := service.NewIntegrationService(integrationRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	patientHandler := handler.NewPatientHandler(patientService)
	healthHandler := handler.NewHealthMetricHandler(healthService)
	performanceHandler := handler.NewPerformanceHandler(performanceService)
	anthropometricHandler := handler.NewAnthropometricHandler(anthropometricService)
	reportHandler := handler.NewReportHandler(reportService)
	integrationHandler := handler.NewIntegrationHandler(integrationService)

	authenticated := middleware.Auth(tokens, userRepo)
	professionalOnly := middleware.RequireRole(domain.RoleProfessional)

	// --- Auth routes (open) ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// --- Profile ---
	users := e.Group("/v1/users", authenticated)
	users.GET("/profile", userHandler.GetProfile)
	users.PUT("/profile", userHandler.UpdateProfile)

	// --- Patient management (professionals only) ---
	patients := e.Group("/v1/users/patients", authenticated, professionalOnly)
	patients.POST("", patientHandler.Create)
	patients.GET("", patientHandler.List)
	patients.GET("/:id", patientHandler.Get)
	patients.PUT("/:id", patientHandler.Update)
	patients.DELETE("/:id", patientHandler.Delete)

	// --- Health measurements (athletes create, both read) ---
	health := e.Group("/v1/health", authenticated)
	health.POST("", healthHandler.Create)
	health.GET("", healthHandler.List)
	health.GET("/:id", healthHandler.Get)
	health.PUT("/:id", healthHandler.Update)
	health.DELETE("/:id", healthHandler.Delete)

	// --- Performance measurements (professionals write, both read) ---
	performance := e.Group("/v1/performance", authenticated)
	performance.POST("", performanceHandler.Create, professionalOnly)
	performance.GET("", performanceHandler.List)
	performance.GET("/:id", performanceHandler.Get)
	performance.PUT("/:id", performanceHandler.Update, professionalOnly)
	performance.DELETE("/:id", performanceHandler.Delete, professionalOnly)

	// --- Anthropometric records (professionals write, both read) ---
	anthropometric := e.Group("/v1/measurements/anthropometric", authenticated)
	anthropometric.POST("", anthropometricHandler.Create, professionalOnly)
	anthropometric.GET("", anthropometricHandler.List)
	anthropometric.GET("/:id", anthropometricHandler.Get)
	anthropometric.PUT("/:id", anthropometricHandler.Update, professionalOnly)
	anthropometric.DELETE("/:id", anthropometricHandler.Delete, professionalOnly)

	// --- Reports ---
	// The shared path is public and must be registered outside the group so
	// the auth middleware never sees it.
	e.GET("/v1/reports/shared/:accessCode", reportHandler.GetShared)

	reports := e.Group("/v1/reports", authenticated)
	reports.POST("", reportHandler.Create)
	reports.GET("", reportHandler.List)
	reports.GET("/:id", reportHandler.Get)
	reports.PUT("/:id", reportHandler.Update, professionalOnly)
	reports.DELETE("/:id", reportHandler.Delete, professionalOnly)
	reports.POST("/:id/share", reportHandler.Share, professionalOnly)
	reports.POST("/:id/unshare", reportHandler.Unshare, professionalOnly)

	// --- Integrations (stubs) ---
	integrations := e.Group("/v1/integrations", authenticated)
	integrations.POST("/:provider/connect", integrationHandler.Connect)
	integrations.GET("/status", integrationHandler.Status)

	// --- Health probes and metrics (no auth required) ---
	probeHandler := handler.NewProbeHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", probeHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
