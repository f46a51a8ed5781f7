package repository

import (
	"context"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

type AdminConfigRepository interface {
	// 単一行を取得し、無ければデフォルト値で作成
	GetOrCreate(ctx context.Context) (model.AdminConfig, error)
	Save(ctx context.Context, cfg model.AdminConfig) error
}
