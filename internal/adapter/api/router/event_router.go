package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupEventRouter(e *echo.Echo, eventHandler *handler.EventHandler, authMiddleware *middleware.AuthMiddleware, moderatorMiddleware *middleware.ModeratorMiddleware) {
	eventGroup := e.Group("/v1/events")
	eventGroup.Use(authMiddleware.Authenticate)

	eventGroup.POST("", eventHandler.SubmitEvent)     // POST /v1/events - proposal, starts pending
	eventGroup.GET("", eventHandler.ListApproved)     // GET /v1/events - approved only
	eventGroup.GET("/mine", eventHandler.GetMyEvents) // GET /v1/events/mine

	moderationGroup := e.Group("/v1/moderation/events")
	moderationGroup.Use(authMiddleware.Authenticate)
	moderationGroup.Use(moderatorMiddleware.ModeratorOnly)

	moderationGroup.GET("", eventHandler.ListPending)       // GET /v1/moderation/events
	moderationGroup.PUT("/:id", eventHandler.ModerateEvent) // PUT /v1/moderation/events/:id
}
