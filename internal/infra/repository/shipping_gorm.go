package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type ShippingZoneGormRepository struct {
	db *gorm.DB
}

// DI
func NewShippingZoneGormRepository(db *gorm.DB) *ShippingZoneGormRepository {
	return &ShippingZoneGormRepository{db: db}
}

func (r *ShippingZoneGormRepository) Create(ctx context.Context, z model.ShippingZone) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&z).Error; err != nil {
		return 0, err
	}
	return z.ID, nil
}

func (r *ShippingZoneGormRepository) FindByID(ctx context.Context, zoneID int64) (model.ShippingZone, error) {
	var z model.ShippingZone
	err := r.db.WithContext(ctx).Where("id = ?", zoneID).First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingZone{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingZone{}, err
	}
	return z, nil
}

func (r *ShippingZoneGormRepository) FindByName(ctx context.Context, name string) (model.ShippingZone, bool, error) {
	var z model.ShippingZone
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingZone{}, false, nil
	}
	if err != nil {
		return model.ShippingZone{}, false, err
	}
	return z, true, nil
}

func (r *ShippingZoneGormRepository) ListActive(ctx context.Context) ([]model.ShippingZone, error) {
	var zones []model.ShippingZone
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&zones).Error; err != nil {
		return []model.ShippingZone{}, err
	}
	return zones, nil
}

type ShippingMethodGormRepository struct {
	db *gorm.DB
}

// DI
func NewShippingMethodGormRepository(db *gorm.DB) *ShippingMethodGormRepository {
	return &ShippingMethodGormRepository{db: db}
}

func (r *ShippingMethodGormRepository) Create(ctx context.Context, m model.ShippingMethod) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *ShippingMethodGormRepository) FindByID(ctx context.Context, methodID int64) (model.ShippingMethod, error) {
	var m model.ShippingMethod
	err := r.db.WithContext(ctx).Where("id = ?", methodID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingMethod{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingMethod{}, err
	}
	return m, nil
}

func (r *ShippingMethodGormRepository) FindByZoneAndName(ctx context.Context, zoneID int64, name string) (model.ShippingMethod, bool, error) {
	var m model.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND name = ?", zoneID, name).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingMethod{}, false, nil
	}
	if err != nil {
		return model.ShippingMethod{}, false, err
	}
	return m, true, nil
}

// priority 昇順 → base_price 昇順
func (r *ShippingMethodGormRepository) ListActiveByZoneIDs(ctx context.Context, zoneIDs []int64) ([]model.ShippingMethod, error) {
	if len(zoneIDs) == 0 {
		return []model.ShippingMethod{}, nil
	}

	var methods []model.ShippingMethod
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND zone_id IN ?", true, zoneIDs).
		Order("priority asc, base_price asc").
		Find(&methods).Error; err != nil {
		return []model.ShippingMethod{}, err
	}
	return methods, nil
}

func (r *ShippingMethodGormRepository) ListAll(ctx context.Context) ([]model.ShippingMethod, error) {
	var methods []model.ShippingMethod
	if err := r.db.WithContext(ctx).
		Order("priority asc, name asc").
		Find(&methods).Error; err != nil {
		return []model.ShippingMethod{}, err
	}
	return methods, nil
}

func (r *ShippingMethodGormRepository) Save(ctx context.Context, m model.ShippingMethod) error {
	res := r.db.WithContext(ctx).
		Model(&model.ShippingMethod{}).
		Where("id = ?", m.ID).
		Select("name", "description", "pricing_type", "base_price", "percentage_rate",
			"weight_rate", "free_shipping_threshold", "estimated_days_min", "estimated_days_max",
			"priority", "is_active").
		Updates(&m)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ShippingMethodGormRepository) Delete(ctx context.Context, methodID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", methodID).
		Delete(&model.ShippingMethod{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
