package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
	"campushub/internal/adapter/api/middleware"
)

func SetupMarketRouter(e *echo.Echo, marketHandler *handler.MarketHandler, authMiddleware *middleware.AuthMiddleware) {
	marketGroup := e.Group("/v1/market")
	marketGroup.Use(authMiddleware.Authenticate)

	marketGroup.POST("", marketHandler.CreateListing)     // POST /v1/market
	marketGroup.GET("", marketHandler.ListListings)       // GET /v1/market?category=&status=
	marketGroup.GET("/mine", marketHandler.GetMyListings) // GET /v1/market/mine
	marketGroup.GET("/:id", marketHandler.GetListing)     // GET /v1/market/:id
	marketGroup.PUT("/:id/sold", marketHandler.MarkSold)  // PUT /v1/market/:id/sold
	marketGroup.POST("/images", marketHandler.UploadImage)

	// The delete endpoint keeps the callable path and contract; it does
	// its own authentication, so no middleware here.
	e.POST("/v1/functions/deleteMarketItem", marketHandler.DeleteMarketItem)
}
