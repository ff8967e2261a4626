package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers /ws. The handler authenticates the upgrade
// request itself.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
