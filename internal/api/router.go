package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun"

	"github.com/tallercharli/accounts-api/internal/api/handler"
	"github.com/tallercharli/accounts-api/internal/api/middleware"
	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
	"github.com/tallercharli/accounts-api/internal/core/service"
	bundb "github.com/tallercharli/accounts-api/internal/infrastructure/db/bun"
	redisdb "github.com/tallercharli/accounts-api/internal/infrastructure/db/redis"
	httphandlers "github.com/tallercharli/accounts-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, which disables the verified-token cache.
func NewRouter(db *bun.DB, rdb *goredis.Client, provider ports.IdentityProvider, cacheTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := bundb.NewUserRepository(db)
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(provider, userRepo, log)

	var tokenCache ports.TokenCache
	if rdb != nil {
		tokenCache = redisdb.NewTokenCache(rdb, cacheTTL)
	}
	authenticated := middleware.Authenticate(provider, userRepo, tokenCache, log)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authenticated)
	auth.GET("/me", authHandler.Me, authenticated)

	// --- User routes (all behind authentication) ---
	users := e.Group("/users", authenticated)
	users.POST("", userHandler.Create, adminOnly)
	users.POST("/admin", userHandler.CreateByAdmin, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/deleted", userHandler.ListDeleted, adminOnly)
	users.GET("/profile", userHandler.Profile)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PATCH("/:id/recover", userHandler.Recover, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
