package router

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/adapter/api/handler"
	"swapi/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate) // All chat endpoints require a session

	// Conversation management
	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.POST("", chatHandler.CreateChat)
	chatGroup.GET("/unread", chatHandler.GetUnreadCount)
	chatGroup.GET("/:id", chatHandler.GetChatByID)
	chatGroup.DELETE("/:id", chatHandler.DeleteChat)
	chatGroup.PUT("/:id/read", chatHandler.MarkChatAsRead)

	// Message management
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
}
