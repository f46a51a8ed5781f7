package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parvejme24/bistro-boss-server/internal/config"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Menu.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Shipping.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e)
	h.AdminConfig.RegisterRoutes(e, cfg)
}
