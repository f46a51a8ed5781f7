package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/middleware"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

// /admin/orders のHTTP
type AdminOrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewAdminOrderHandler(uc *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	Status            string     `json:"status"`
	Notes             *string    `json:"notes"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/v1/admin/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f := repo.AdminOrderListFilter{
		Page:   parseIntDefault(c.QueryParam("page"), 1),
		Limit:  parseIntDefault(c.QueryParam("limit"), 20),
		Status: c.QueryParam("status"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &uid
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	items, total, err := h.uc.ListAdmin(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ListResponse{Items: items, Total: total, Page: f.Page, Limit: f.Limit})
}

func (h *AdminOrderHandler) stats(c echo.Context) error {
	period := parseIntDefault(c.QueryParam("period_days"), 30)

	out, err := h.uc.Stats(c.Request().Context(), period)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetAdmin(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), orderID, usecase.UpdateStatusInput{
		Status:            model.OrderStatus(req.Status),
		Notes:             req.Notes,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
