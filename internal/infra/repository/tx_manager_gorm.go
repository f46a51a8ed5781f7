package repository

import (
	"context"

	"gorm.io/gorm"

	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type txReposGorm struct {
	orders          repo.OrderRepository
	orderItems      repo.OrderItemRepository
	carts           repo.CartRepository
	cartItems       repo.CartItemRepository
	menus           repo.MenuRepository
	shippingMethods repo.ShippingMethodRepository
	sequences       repo.OrderSequenceRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                   { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *txReposGorm) Carts() repo.CartRepository                     { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository             { return r.cartItems }
func (r *txReposGorm) Menus() repo.MenuRepository                     { return r.menus }
func (r *txReposGorm) ShippingMethods() repo.ShippingMethodRepository { return r.shippingMethods }
func (r *txReposGorm) Sequences() repo.OrderSequenceRepository        { return r.sequences }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:          NewOrderGormRepository(tx),
			orderItems:      NewOrderItemGormRepository(tx),
			carts:           NewCartGormRepository(tx),
			cartItems:       NewCartGormRepository(tx),
			menus:           NewMenuGormRepository(tx),
			shippingMethods: NewShippingMethodGormRepository(tx),
			sequences:       NewOrderSequenceGormRepository(tx),
		}
		return fn(r)
	})
}
