package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/middleware"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

// /shipping の公開API と /admin/shipping の管理API
type ShippingHandler struct {
	uc *usecase.ShippingUsecase
}

// DI
func NewShippingHandler(uc *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

func (h *ShippingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// 公開：配送先に応じた方法の列挙と見積もり
	pub := e.Group("/api/v1/shipping")
	pub.GET("/methods", h.listEligible)
	pub.POST("/quote", h.quote)

	// 管理：ゾーンと方法のCRUD
	adm := e.Group("/api/v1/admin/shipping")
	adm.Use(middleware.AuthJWT(cfg))
	adm.Use(middleware.AdminRoleGuard())

	adm.POST("/zones", h.createZone)
	adm.GET("/zones", h.listZones)
	adm.POST("/methods", h.createMethod)
	adm.GET("/methods", h.listAllMethods)
	adm.PATCH("/methods/:id", h.updateMethod)
	adm.DELETE("/methods/:id", h.deleteMethod)
}

func (h *ShippingHandler) listEligible(c echo.Context) error {
	country := c.QueryParam("country")
	state := c.QueryParam("state")
	city := c.QueryParam("city")

	out, err := h.uc.ListEligibleMethods(c.Request().Context(), country, state, city)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) quote(c echo.Context) error {
	var req usecase.QuoteChargeInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.QuoteCharge(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) createZone(c echo.Context) error {
	var req usecase.CreateZoneInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateZone(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ShippingHandler) listZones(c echo.Context) error {
	out, err := h.uc.ListZones(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) createMethod(c echo.Context) error {
	var req usecase.CreateMethodInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateMethod(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ShippingHandler) listAllMethods(c echo.Context) error {
	out, err := h.uc.ListAllMethods(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) updateMethod(c echo.Context) error {
	methodID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.UpdateMethodInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateMethod(c.Request().Context(), methodID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ShippingHandler) deleteMethod(c echo.Context) error {
	methodID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteMethod(c.Request().Context(), methodID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "shipping method deleted"})
}
