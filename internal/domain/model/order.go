package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
)

// 1回の呼び出しで1エッジだけ進める。スキップは許可しない。
// cancelled は非終端状態のどこからでも、refunded は delivered / cancelled からだけ。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {OrderStatusRefunded},
	OrderStatusCancelled:      {OrderStatusRefunded},
	OrderStatusRefunded:       {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// delivered と refunded、そして cancelled から refunded 以外へ進めない状態
func (s OrderStatus) IsCancellable() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return false
	}
	return true
}

type PaymentMethod string

const (
	PaymentMethodSSLCommerz     PaymentMethod = "ssl_commerz"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodSSLCommerz, PaymentMethodCashOnDelivery, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// ゲートウェイ決済かどうか。取引IDとセッション作成はゲートウェイのみ。
func (m PaymentMethod) IsGateway() bool {
	return m == PaymentMethodSSLCommerz
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// 決済サブステート。注文に埋め込む。
type Payment struct {
	Method          PaymentMethod   `gorm:"type:varchar(30);not null" json:"method"`
	Status          PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	TransactionID   string          `gorm:"type:varchar(64);index" json:"transaction_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	GatewayResponse string          `gorm:"type:text" json:"-"`
	PaidAt          *time.Time      `json:"paid_at"`
}

// 注文。カートのスナップショットとして一度だけ作られ、
// 以後はステータス遷移と決済サブステートでのみ更新する。削除はしない。
type Order struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber        string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`
	UserID             int64           `gorm:"not null;index" json:"user_id"`
	TotalItems         int64           `gorm:"not null" json:"total_items"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCharge     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping_charge"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	ShippingAddress    ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	ShippingMethodID   int64           `gorm:"not null" json:"shipping_method_id"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Payment            Payment         `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Notes              string          `gorm:"type:text" json:"notes"`
	EstimatedDelivery  *time.Time      `json:"estimated_delivery"`
	DeliveredAt        *time.Time      `json:"delivered_at"`
	CancelledAt        *time.Time      `json:"cancelled_at"`
	CancelledBy        *int64          `json:"cancelled_by"`
	CancellationReason string          `gorm:"type:text" json:"cancellation_reason"`
	CreatedAt          time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
