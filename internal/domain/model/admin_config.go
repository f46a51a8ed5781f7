package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 管理設定（単一行運用）。ゲートウェイ資格情報はここから読む。ハードコードしない。
type AdminConfig struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// SSLCommerz
	StoreID       string `gorm:"type:varchar(100);not null" json:"store_id"`
	StorePassword string `gorm:"type:varchar(100);not null" json:"-"`
	IsLive        bool   `gorm:"not null;default:false" json:"is_live"`
	GatewayActive bool   `gorm:"not null;default:true" json:"gateway_active"`
	Currency      string `gorm:"type:varchar(3);not null" json:"currency"`

	// 一般設定
	SiteName           string          `gorm:"type:varchar(255);not null" json:"site_name"`
	MinimumOrderAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"minimum_order_amount"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
