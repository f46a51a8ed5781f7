package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。カート明細からのコピーで、後からメニュー価格が変わっても影響しない。
type OrderItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"not null;index" json:"order_id"`
	MenuID            int64           `gorm:"not null;index" json:"menu_id"`
	MenuNameSnapshot  string          `gorm:"type:varchar(255);not null" json:"menu_name_snapshot"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price_snapshot"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
