package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupLostFoundRouter(e *echo.Echo, lostFoundHandler *handler.LostFoundHandler, authMiddleware *middleware.AuthMiddleware) {
	lostFoundGroup := e.Group("/v1/lostfound")
	lostFoundGroup.Use(authMiddleware.Authenticate)

	lostFoundGroup.POST("", lostFoundHandler.ReportItem)         // POST /v1/lostfound
	lostFoundGroup.GET("", lostFoundHandler.ListReports)         // GET /v1/lostfound?type=&status=
	lostFoundGroup.GET("/mine", lostFoundHandler.GetMyReports)   // GET /v1/lostfound/mine
	lostFoundGroup.GET("/:id", lostFoundHandler.GetReport)       // GET /v1/lostfound/:id
	lostFoundGroup.PUT("/:id/resolve", lostFoundHandler.Resolve) // PUT /v1/lostfound/:id/resolve
}
