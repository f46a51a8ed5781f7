package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PricingType string

const (
	PricingTypeFixed                 PricingType = "fixed"
	PricingTypePercentage            PricingType = "percentage"
	PricingTypeWeightBased           PricingType = "weight_based"
	PricingTypeFreeShippingThreshold PricingType = "free_shipping_threshold"
)

func (p PricingType) Valid() bool {
	switch p {
	case PricingTypeFixed, PricingTypePercentage, PricingTypeWeightBased, PricingTypeFreeShippingThreshold:
		return true
	}
	return false
}

// 配送ゾーン。states/citiesが空なら「その単位では無条件一致」。
type ShippingZone struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Countries []string  `gorm:"serializer:json;type:jsonb;not null" json:"countries"`
	States    []string  `gorm:"serializer:json;type:jsonb" json:"states"`
	Cities    []string  `gorm:"serializer:json;type:jsonb" json:"cities"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 宛先がこのゾーンに一致するか
func (z ShippingZone) Matches(country, state, city string) bool {
	if !contains(z.Countries, country) {
		return false
	}
	if len(z.States) > 0 && !contains(z.States, state) {
		return false
	}
	if len(z.Cities) > 0 && !contains(z.Cities, city) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// お届け日数の目安
type EstimatedDays struct {
	Min int `gorm:"not null" json:"min"`
	Max int `gorm:"not null" json:"max"`
}

// 配送方法。ちょうど1つのゾーンに属する。
type ShippingMethod struct {
	ID                    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                  string          `gorm:"type:varchar(255);not null;uniqueIndex:uniq_zone_method" json:"name"`
	Description           string          `gorm:"type:text" json:"description"`
	ZoneID                int64           `gorm:"not null;index;uniqueIndex:uniq_zone_method" json:"zone_id"`
	PricingType           PricingType     `gorm:"type:varchar(30);not null" json:"pricing_type"`
	BasePrice             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	PercentageRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage_rate"`
	WeightRate            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight_rate"`
	FreeShippingThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"free_shipping_threshold"`
	EstimatedDays         EstimatedDays   `gorm:"embedded;embeddedPrefix:estimated_days_" json:"estimated_days"`
	Priority              int             `gorm:"not null;default:0" json:"priority"`
	IsActive              bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
