package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
	CartStatusAbandoned  CartStatus = "ABANDONED"
)

// 配送先住所。カートと注文に埋め込む。
type ShippingAddress struct {
	Country string `gorm:"type:varchar(100)" json:"country"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	ZipCode string `gorm:"type:varchar(20)" json:"zip_code"`
	Address string `gorm:"type:varchar(255)" json:"address"`
}

// 住所が設定済みかどうか（国が最低条件）
func (a ShippingAddress) IsSet() bool {
	return a.Country != ""
}

// 1ユーザーにつきACTIVEは1つ。
// 住所を変更したら selected_shipping_method_id と shipping_charge は必ずクリアする。
type Cart struct {
	ID                       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                   int64           `gorm:"not null;index" json:"user_id"`
	Status                   CartStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress          ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	SelectedShippingMethodID *int64          `gorm:"index" json:"selected_shipping_method_id"`
	Subtotal                 decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCharge           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping_charge"`
	GrandTotal               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	CreatedAt                time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
