package usecase

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type MenuUsecase struct {
	repo repo.MenuRepository
}

func NewMenuUsecase(r repo.MenuRepository) *MenuUsecase {
	return &MenuUsecase{repo: r}
}

func (u *MenuUsecase) List(ctx context.Context) ([]model.Menu, error) {
	menus, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return menus, nil
}

func (u *MenuUsecase) Get(ctx context.Context, menuID int64) (model.Menu, error) {
	menu, err := u.repo.FindByID(ctx, menuID)
	if err == repo.ErrNotFound {
		return model.Menu{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "menu not found")
	}
	if err != nil {
		return model.Menu{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return menu, nil
}

type CreateMenuInput struct {
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
}

func (u *MenuUsecase) Create(ctx context.Context, in CreateMenuInput) (model.Menu, error) {
	if in.Name == "" {
		return model.Menu{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "name is required")
	}
	if in.Price.IsNegative() {
		return model.Menu{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "price cannot be negative")
	}

	menu := model.Menu{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Price:       in.Price.Round(2),
		IsActive:    true,
	}

	id, err := u.repo.Create(ctx, menu)
	if err != nil {
		return model.Menu{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	menu.ID = id
	return menu, nil
}
