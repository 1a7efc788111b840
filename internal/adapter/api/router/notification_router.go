package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notificationGroup := e.Group("/v1/notifications")
	notificationGroup.Use(authMiddleware.Authenticate)

	notificationGroup.GET("/panel", notificationHandler.OpenPanel)  // GET /v1/notifications/panel - fetch + mark read
	notificationGroup.PUT("/read", notificationHandler.MarkAllRead) // PUT /v1/notifications/read
}
