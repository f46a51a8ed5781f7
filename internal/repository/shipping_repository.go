package repository

import (
	"context"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

type ShippingZoneRepository interface {
	Create(ctx context.Context, z model.ShippingZone) (int64, error)
	FindByID(ctx context.Context, zoneID int64) (model.ShippingZone, error)
	FindByName(ctx context.Context, name string) (model.ShippingZone, bool, error)
	ListActive(ctx context.Context) ([]model.ShippingZone, error)
}

type ShippingMethodRepository interface {
	Create(ctx context.Context, m model.ShippingMethod) (int64, error)
	FindByID(ctx context.Context, methodID int64) (model.ShippingMethod, error)
	FindByZoneAndName(ctx context.Context, zoneID int64, name string) (model.ShippingMethod, bool, error)
	// 有効な方法を priority 昇順 → base_price 昇順で返す
	ListActiveByZoneIDs(ctx context.Context, zoneIDs []int64) ([]model.ShippingMethod, error)
	ListAll(ctx context.Context) ([]model.ShippingMethod, error)
	Save(ctx context.Context, m model.ShippingMethod) error
	Delete(ctx context.Context, methodID int64) error
}
