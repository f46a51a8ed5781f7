package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

func (r *MenuGormRepository) FindByID(ctx context.Context, menuID int64) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).Where("id = ?", menuID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Menu{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

func (r *MenuGormRepository) ListActive(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&menus).Error; err != nil {
		return []model.Menu{}, err
	}
	return menus, nil
}

func (r *MenuGormRepository) Create(ctx context.Context, m model.Menu) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}
