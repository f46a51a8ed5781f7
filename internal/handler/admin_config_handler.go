package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/middleware"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

// /admin/config のHTTP。ゲートウェイ資格情報と一般設定。
type AdminConfigHandler struct {
	uc *usecase.AdminConfigUsecase
}

// DI
func NewAdminConfigHandler(uc *usecase.AdminConfigUsecase) *AdminConfigHandler {
	return &AdminConfigHandler{uc: uc}
}

type UpdateConfigRequest struct {
	StoreID            *string          `json:"store_id"`
	StorePassword      *string          `json:"store_password"`
	IsLive             *bool            `json:"is_live"`
	GatewayActive      *bool            `json:"gateway_active"`
	Currency           *string          `json:"currency"`
	SiteName           *string          `json:"site_name"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`
}

func (h *AdminConfigHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/v1/admin/config")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.get)
	g.PATCH("", h.update)
}

func (h *AdminConfigHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminConfigHandler) update(c echo.Context) error {
	var req UpdateConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), usecase.UpdateConfigInput{
		StoreID:            req.StoreID,
		StorePassword:      req.StorePassword,
		IsLive:             req.IsLive,
		GatewayActive:      req.GatewayActive,
		Currency:           req.Currency,
		SiteName:           req.SiteName,
		MinimumOrderAmount: req.MinimumOrderAmount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
