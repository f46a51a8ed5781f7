package repository

import (
	"context"
	"errors"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type MenuRepository interface {
	FindByID(ctx context.Context, menuID int64) (model.Menu, error)
	ListActive(ctx context.Context) ([]model.Menu, error)
	Create(ctx context.Context, m model.Menu) (int64, error)
}
