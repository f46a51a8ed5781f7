package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
}

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// 管理画面向けの集計
type OrderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingOrders   int64           `json:"pending_orders"`
	ConfirmedOrders int64           `json:"confirmed_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// ステータス・決済の更新前に行ロックを取る
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	// ゲートウェイコールバックのひも付け
	FindByTransactionID(ctx context.Context, tranID string) (model.Order, error)
	FindByTransactionIDForUpdate(ctx context.Context, tranID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	Save(ctx context.Context, order model.Order) error
	ListByUserID(ctx context.Context, userID int64, f OrderListFilter) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	StatsSince(ctx context.Context, since time.Time) (OrderStats, error)
}

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
}

// 日毎の連番をアトミックに払い出す
type OrderSequenceRepository interface {
	Next(ctx context.Context, day string) (int64, error)
}
