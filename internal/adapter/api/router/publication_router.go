package router

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/adapter/api/handler"
	"swapi/internal/adapter/api/middleware"
)

func SetupPublicationRouter(e *echo.Echo, publicationHandler *handler.PublicationHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/categories", publicationHandler.Categories)

	publications := e.Group("/v1/publications")
	publications.GET("", publicationHandler.List)
	publications.GET("/:id", publicationHandler.GetByID)

	owned := e.Group("/v1/publications")
	owned.Use(authMiddleware.Authenticate)
	owned.POST("", publicationHandler.Create)
	owned.PATCH("/:id", publicationHandler.Update)
	owned.POST("/:id/deactivate", publicationHandler.Deactivate)
	owned.DELETE("/:id", publicationHandler.Delete)
}
