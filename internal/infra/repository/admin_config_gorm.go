package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type AdminConfigGormRepository struct {
	db *gorm.DB
}

func NewAdminConfigGormRepository(db *gorm.DB) *AdminConfigGormRepository {
	return &AdminConfigGormRepository{db: db}
}

// 単一行を取得し、無ければサンドボックスのデフォルトで作成
func (r *AdminConfigGormRepository) GetOrCreate(ctx context.Context) (model.AdminConfig, error) {
	var cfg model.AdminConfig

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Order("id asc").First(&cfg).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		cfg = model.AdminConfig{
			StoreID:            "testbox",
			StorePassword:      "qwerty",
			IsLive:             false,
			GatewayActive:      true,
			Currency:           "BDT",
			SiteName:           "Bistro Boss",
			MinimumOrderAmount: decimal.NewFromInt(100),
			UpdatedAt:          time.Now(),
		}

		if err := tx.Create(&cfg).Error; err != nil {
			//同時作成で負けたらもう一回探す
			retryErr := tx.Order("id asc").First(&cfg).Error
			if retryErr == nil {
				return nil
			}
			return err
		}
		return nil
	})

	if err != nil {
		return model.AdminConfig{}, err
	}
	return cfg, nil
}

func (r *AdminConfigGormRepository) Save(ctx context.Context, cfg model.AdminConfig) error {
	res := r.db.WithContext(ctx).
		Model(&model.AdminConfig{}).
		Where("id = ?", cfg.ID).
		Select("store_id", "store_password", "is_live", "gateway_active", "currency",
			"site_name", "minimum_order_amount", "updated_at").
		Updates(map[string]interface{}{
			"store_id":             cfg.StoreID,
			"store_password":       cfg.StorePassword,
			"is_live":              cfg.IsLive,
			"gateway_active":       cfg.GatewayActive,
			"currency":             cfg.Currency,
			"site_name":            cfg.SiteName,
			"minimum_order_amount": cfg.MinimumOrderAmount,
			"updated_at":           time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
