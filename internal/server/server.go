package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/handler"
)

// HTTPサーバーの組み立てに必要なHandler一式
type Handlers struct {
	Menu        *handler.MenuHandler
	Cart        *handler.CartHandler
	Shipping    *handler.ShippingHandler
	Order       *handler.OrderHandler
	AdminOrder  *handler.AdminOrderHandler
	Payment     *handler.PaymentHandler
	AdminConfig *handler.AdminConfigHandler
}

// New はルート登録済みのechoを返す
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, cfg, h)

	return e
}

func Start(cfg config.Config, h Handlers) error {
	e := New(cfg, h)

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	return e.Start(addr)
}
