package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.InitiateChat)           // POST /v1/chats - open or reuse a chat about an item
	chatGroup.GET("", chatHandler.GetUserChats)            // GET /v1/chats - caller's chats
	chatGroup.GET("/inbox", chatHandler.GetInbox)          // GET /v1/chats/inbox - aggregated summaries with unread counts
	chatGroup.GET("/:id", chatHandler.GetChatByID)         // GET /v1/chats/:id
	chatGroup.PUT("/:id/read", chatHandler.MarkChatAsRead) // PUT /v1/chats/:id/read

	chatGroup.POST("/:id/messages", chatHandler.SendMessage)    // POST /v1/chats/:id/messages
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages) // GET /v1/chats/:id/messages
	chatGroup.POST("/:id/offers", chatHandler.SendOffer)        // POST /v1/chats/:id/offers
}
