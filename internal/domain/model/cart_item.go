package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。
// 追加時点の価格を必ず保存。line_total = quantity × unit_price_snapshot。
type CartItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID            int64           `gorm:"not null;index;uniqueIndex:uniq_cart_menu" json:"cart_id"`
	MenuID            int64           `gorm:"not null;index;uniqueIndex:uniq_cart_menu" json:"menu_id"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
