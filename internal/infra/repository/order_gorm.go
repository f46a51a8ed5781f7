package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	return r.findOne(ctx, r.db, "id = ?", orderID)
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	return r.findOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", orderID)
}

func (r *OrderGormRepository) FindByTransactionID(ctx context.Context, tranID string) (model.Order, error) {
	return r.findOne(ctx, r.db, "payment_transaction_id = ?", tranID)
}

func (r *OrderGormRepository) FindByTransactionIDForUpdate(ctx context.Context, tranID string) (model.Order, error) {
	return r.findOne(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "payment_transaction_id = ?", tranID)
}

func (r *OrderGormRepository) findOne(ctx context.Context, db *gorm.DB, query string, arg interface{}) (model.Order, error) {
	var o model.Order
	err := db.WithContext(ctx).Where(query, arg).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// ステータス・決済・キャンセル情報を含めて更新。作成時の項目は触らない。
func (r *OrderGormRepository) Save(ctx context.Context, order model.Order) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", order.ID).
		Select("status", "payment_status", "payment_transaction_id", "payment_gateway_response",
			"payment_paid_at", "notes", "estimated_delivery", "delivered_at",
			"cancelled_at", "cancelled_by", "cancellation_reason", "updated_at").
		Updates(map[string]interface{}{
			"status":                   order.Status,
			"payment_status":           order.Payment.Status,
			"payment_transaction_id":   order.Payment.TransactionID,
			"payment_gateway_response": order.Payment.GatewayResponse,
			"payment_paid_at":          order.Payment.PaidAt,
			"notes":                    order.Notes,
			"estimated_delivery":       order.EstimatedDelivery,
			"delivered_at":             order.DeliveredAt,
			"cancelled_at":             order.CancelledAt,
			"cancelled_by":             order.CancelledBy,
			"cancellation_reason":      order.CancellationReason,
			"updated_at":               time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.
		Order("id desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.
		Order("id desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) StatsSince(ctx context.Context, since time.Time) (repo.OrderStats, error) {
	var stats repo.OrderStats

	base := r.db.WithContext(ctx).Model(&model.Order{}).Where("created_at >= ?", since)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return repo.OrderStats{}, err
	}

	var revenue decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Select("SUM(grand_total)").
		Scan(&revenue).Error; err != nil {
		return repo.OrderStats{}, err
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	} else {
		stats.TotalRevenue = decimal.Zero
	}

	counts := []struct {
		status model.OrderStatus
		dst    *int64
	}{
		{model.OrderStatusPending, &stats.PendingOrders},
		{model.OrderStatusConfirmed, &stats.ConfirmedOrders},
		{model.OrderStatusDelivered, &stats.DeliveredOrders},
		{model.OrderStatusCancelled, &stats.CancelledOrders},
	}
	for _, c := range counts {
		if err := base.Session(&gorm.Session{}).
			Where("status = ?", c.status).
			Count(c.dst).Error; err != nil {
			return repo.OrderStats{}, err
		}
	}

	return stats, nil
}
