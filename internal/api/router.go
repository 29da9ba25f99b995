package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/afiya/health-system/internal/api/handler"
	"github.com/afiya/health-system/internal/api/middleware"
	"github.com/afiya/health-system/internal/core/service"
	mongodb "github.com/afiya/health-system/internal/infrastructure/db/mongo"
	redisdb "github.com/afiya/health-system/internal/infrastructure/db/redis"
	"github.com/afiya/health-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("afiya"))

	// --- Dependencies ---
	programRepo := mongodb.NewProgramRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	programService := service.NewProgramService(programRepo, log)
	clientService := service.NewClientService(clientRepo, programRepo, log)
	authService := service.NewAuthService(authRepo, sessions, cfg.JWTSecret, cfg.TokenTTL)

	programHandler := handler.NewProgramHandler(programService)
	clientHandler := handler.NewClientHandler(clientService)
	authHandler := handler.NewAuthHandler(authService)

	auth := middleware.Auth(cfg.JWTSecret, sessions)

	// --- Open routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/doctors/register", authHandler.Register)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // process liveness only
	e.GET("/health/ready", healthDepsHandler.Readiness) // checks mongo and redis

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Program routes ---
	programs := e.Group("/programs", auth)
	programs.GET("", programHandler.List)
	programs.POST("", programHandler.Create)
	programs.GET("/:id", programHandler.Get)
	programs.PUT("/:id", programHandler.Update)
	programs.PATCH("/:id", programHandler.Patch)
	programs.DELETE("/:id", programHandler.Delete)

	// --- Client routes ---
	clients := e.Group("/clients", auth)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/search", clientHandler.Search)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.PATCH("/:id", clientHandler.Patch)
	clients.DELETE("/:id", clientHandler.Delete)
	clients.POST("/:id/enroll", clientHandler.Enroll)

	// --- Profile ---
	user := e.Group("/user", auth)
	user.GET("/profile", authHandler.Profile)

	return e
}
