package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

type CartRepository interface {
	// ACTIVEカートを取得し、無ければ作成。行ロック付き。
	GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 住所・配送方法・合計などカート本体の更新
	Save(ctx context.Context, cart model.Cart) error
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	// 明細を全削除
	Clear(ctx context.Context, cartID int64) error
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndMenu(ctx context.Context, cartID int64, menuID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, lineTotal decimal.Decimal) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
