package router

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/adapter/api/handler"
	"swapi/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.PATCH("/me", userHandler.UpdateProfile)
	users.GET("/:id", userHandler.GetUser)
}
