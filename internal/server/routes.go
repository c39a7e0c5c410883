package server

import (
	"storebot/internal/handler"
	"storebot/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ルート一式。telegramHがnilならwebhookは生やさない（polling時）。
type Handlers struct {
	Telegram *handler.TelegramHandler
	Health   *handler.HealthHandler
	Ops      *handler.OpsHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string) {
	if h.Health != nil {
		h.Health.RegisterRoutes(e)
	}
	if h.Telegram != nil {
		h.Telegram.RegisterRoutes(e)
	}
	if h.Ops != nil {
		ops := e.Group("/ops", middleware.AuthJWT(jwtSecret), middleware.RequireRole(middleware.RoleOps))
		h.Ops.RegisterRoutes(ops)
	}
}
