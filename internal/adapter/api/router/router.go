package router

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/adapter/api/handler"
)

// SetupCommonRouter wires routes that need no authentication.
func SetupCommonRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
}

// SetupWebSocketRouter exposes the real-time endpoint. The handler
// authenticates via the token query parameter itself.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}

// SetupDevTokenRouter registers the local-testing token endpoint.
// Callers must not register it in production.
func SetupDevTokenRouter(e *echo.Echo, devTokenHandler *handler.DevTokenHandler) {
	e.POST("/v1/dev/token", devTokenHandler.GenerateToken)
}
