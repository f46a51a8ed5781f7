package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/middleware"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

// /menus の公開API
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type CreateMenuRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/api/v1/menus", h.list)
	e.GET("/api/v1/menus/:id", h.get)

	adm := e.Group("/api/v1/admin/menus")
	adm.Use(middleware.AuthJWT(cfg))
	adm.Use(middleware.AdminRoleGuard())
	adm.POST("", h.create)
}

func (h *MenuHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) get(c echo.Context) error {
	menuID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), menuID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) create(c echo.Context) error {
	var req CreateMenuRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateMenuInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
