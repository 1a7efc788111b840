package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	userGroup := e.Group("/v1/users")
	userGroup.Use(authMiddleware.Authenticate)

	userGroup.POST("/sync", userHandler.SyncProfile)         // POST /v1/users/sync - upsert profile on login
	userGroup.GET("/me", userHandler.GetProfile)             // GET /v1/users/me
	userGroup.GET("/me/activity", userHandler.GetMyActivity) // GET /v1/users/me/activity
}
