package router

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/adapter/api/handler"
	"swapi/internal/adapter/api/middleware"
	"swapi/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, handlers *handler.Handlers, authMiddleware *middleware.AuthMiddleware, authLimiter *ratelimit.RateLimiter) {
	SetupHealthRouter(e, handlers.Health)
	SetupAuthRouter(e, handlers.Auth, authMiddleware, authLimiter)
	SetupUserRouter(e, handlers.User, authMiddleware)
	SetupPublicationRouter(e, handlers.Publication, authMiddleware)
	SetupChatRouter(e, handlers.Chat, authMiddleware)
	SetupWebSocketRouter(e, handlers.WebSocket, authMiddleware)
}
