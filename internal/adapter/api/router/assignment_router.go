package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupAssignmentRouter(e *echo.Echo, assignmentHandler *handler.AssignmentHandler, authMiddleware *middleware.AuthMiddleware) {
	assignmentGroup := e.Group("/v1/assignments")
	assignmentGroup.Use(authMiddleware.Authenticate)

	assignmentGroup.POST("", assignmentHandler.CreateRequest)             // POST /v1/assignments
	assignmentGroup.GET("", assignmentHandler.ListRequests)               // GET /v1/assignments
	assignmentGroup.GET("/mine", assignmentHandler.GetMyRequests)         // GET /v1/assignments/mine
	assignmentGroup.GET("/:id", assignmentHandler.GetRequest)             // GET /v1/assignments/:id
	assignmentGroup.PUT("/:id/complete", assignmentHandler.MarkCompleted) // PUT /v1/assignments/:id/complete
}
