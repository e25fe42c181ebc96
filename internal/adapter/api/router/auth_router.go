package router

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/adapter/api/handler"
	"swapi/internal/adapter/api/middleware"
	"swapi/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware, authLimiter *ratelimit.RateLimiter) {
	// Public routes
	public := e.Group("/v1/auth")
	public.Use(middleware.RateLimit(authLimiter))
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.GET("/status", authHandler.Status)

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}
