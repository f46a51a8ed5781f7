package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

// 商品個別の重量は持たない。totalItems × 0.5kg の概算（仕様上の簡略化）。
var perItemWeightKg = decimal.NewFromFloat(0.5)

func EstimatedWeight(totalItems int64) decimal.Decimal {
	return decimal.NewFromInt(totalItems).Mul(perItemWeightKg)
}

// 配送料の計算。純粋関数で、丸め（2桁・四捨五入）は最後に1回だけ。
// 呼び出し側で method の有効性を確認しておくこと。
func ComputeCharge(m model.ShippingMethod, subtotal decimal.Decimal, weight decimal.Decimal) decimal.Decimal {
	var charge decimal.Decimal

	switch m.PricingType {
	case model.PricingTypeFixed:
		charge = m.BasePrice

	case model.PricingTypePercentage:
		charge = subtotal.Mul(m.PercentageRate).Div(decimal.NewFromInt(100))

	case model.PricingTypeWeightBased:
		charge = m.BasePrice.Add(weight.Mul(m.WeightRate))

	case model.PricingTypeFreeShippingThreshold:
		// 境界は含む：subtotal == threshold で送料0
		if subtotal.GreaterThanOrEqual(m.FreeShippingThreshold) {
			charge = decimal.Zero
		} else {
			charge = m.BasePrice
		}

	default:
		// PricingType は CreateMethod / UpdateMethod で検証済み。
		// 想定外の値は固定料金として BasePrice を課す。
		charge = m.BasePrice
	}

	return charge.Round(2)
}

type ShippingUsecase struct {
	zoneRepo   repo.ShippingZoneRepository
	methodRepo repo.ShippingMethodRepository
}

func NewShippingUsecase(zoneRepo repo.ShippingZoneRepository, methodRepo repo.ShippingMethodRepository) *ShippingUsecase {
	return &ShippingUsecase{zoneRepo: zoneRepo, methodRepo: methodRepo}
}

type CreateZoneInput struct {
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
	States    []string `json:"states"`
	Cities    []string `json:"cities"`
}

func (u *ShippingUsecase) CreateZone(ctx context.Context, in CreateZoneInput) (model.ShippingZone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.ShippingZone{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "name is required")
	}
	if len(in.Countries) == 0 {
		return model.ShippingZone{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "at least one country is required")
	}

	_, exists, err := u.zoneRepo.FindByName(ctx, name)
	if err != nil {
		return model.ShippingZone{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if exists {
		return model.ShippingZone{}, NewHTTPError(http.StatusConflict, CodeConflict, "shipping zone with this name already exists")
	}

	zone := model.ShippingZone{
		Name:      name,
		Countries: in.Countries,
		States:    in.States,
		Cities:    in.Cities,
		IsActive:  true,
	}
	if zone.States == nil {
		zone.States = []string{}
	}
	if zone.Cities == nil {
		zone.Cities = []string{}
	}

	id, err := u.zoneRepo.Create(ctx, zone)
	if err != nil {
		return model.ShippingZone{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	zone.ID = id

	return zone, nil
}

func (u *ShippingUsecase) ListZones(ctx context.Context) ([]model.ShippingZone, error) {
	zones, err := u.zoneRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return zones, nil
}

type CreateMethodInput struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	ZoneID                int64               `json:"zone_id"`
	PricingType           string              `json:"pricing_type"`
	BasePrice             decimal.Decimal     `json:"base_price"`
	PercentageRate        decimal.Decimal     `json:"percentage_rate"`
	WeightRate            decimal.Decimal     `json:"weight_rate"`
	FreeShippingThreshold decimal.Decimal     `json:"free_shipping_threshold"`
	EstimatedDays         model.EstimatedDays `json:"estimated_days"`
	Priority              int                 `json:"priority"`
}

func (u *ShippingUsecase) CreateMethod(ctx context.Context, in CreateMethodInput) (model.ShippingMethod, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "name is required")
	}

	pricingType := model.PricingType(in.PricingType)
	if pricingType == "" {
		pricingType = model.PricingTypeFixed
	}
	if !pricingType.Valid() {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid pricing_type")
	}
	if in.BasePrice.IsNegative() || in.PercentageRate.IsNegative() || in.WeightRate.IsNegative() || in.FreeShippingThreshold.IsNegative() {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "rates must not be negative")
	}
	if in.EstimatedDays.Min < 1 || in.EstimatedDays.Max < in.EstimatedDays.Min {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid estimated_days")
	}

	//ゾーンの存在確認
	if _, err := u.zoneRepo.FindByID(ctx, in.ZoneID); err != nil {
		if err == repo.ErrNotFound {
			return model.ShippingMethod{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping zone not found")
		}
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//同一ゾーン内の名前重複チェック
	_, exists, err := u.methodRepo.FindByZoneAndName(ctx, in.ZoneID, name)
	if err != nil {
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if exists {
		return model.ShippingMethod{}, NewHTTPError(http.StatusConflict, CodeConflict, "shipping method with this name already exists in this zone")
	}

	method := model.ShippingMethod{
		Name:                  name,
		Description:           in.Description,
		ZoneID:                in.ZoneID,
		PricingType:           pricingType,
		BasePrice:             in.BasePrice,
		PercentageRate:        in.PercentageRate,
		WeightRate:            in.WeightRate,
		FreeShippingThreshold: in.FreeShippingThreshold,
		EstimatedDays:         in.EstimatedDays,
		Priority:              in.Priority,
		IsActive:              true,
	}

	id, err := u.methodRepo.Create(ctx, method)
	if err != nil {
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	method.ID = id

	return method, nil
}

// 宛先に適用できる有効な方法を priority 昇順 → base_price 昇順で返す
func (u *ShippingUsecase) ListEligibleMethods(ctx context.Context, country, state, city string) ([]model.ShippingMethod, error) {
	if strings.TrimSpace(country) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "country is required")
	}

	zones, err := u.zoneRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	zoneIDs := make([]int64, 0, len(zones))
	for _, z := range zones {
		if z.Matches(country, state, city) {
			zoneIDs = append(zoneIDs, z.ID)
		}
	}

	methods, err := u.methodRepo.ListActiveByZoneIDs(ctx, zoneIDs)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return methods, nil
}

type QuoteChargeInput struct {
	MethodID   int64           `json:"method_id"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int64           `json:"total_items"`
}

type QuoteChargeOutput struct {
	MethodID       int64               `json:"method_id"`
	MethodName     string              `json:"method_name"`
	EstimatedDays  model.EstimatedDays `json:"estimated_days"`
	ShippingCharge decimal.Decimal     `json:"shipping_charge"`
}

// チェックアウト前の送料見積もり
func (u *ShippingUsecase) QuoteCharge(ctx context.Context, in QuoteChargeInput) (QuoteChargeOutput, error) {
	if in.MethodID <= 0 {
		return QuoteChargeOutput{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "method_id is required")
	}

	method, err := u.methodRepo.FindByID(ctx, in.MethodID)
	if err == repo.ErrNotFound {
		return QuoteChargeOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping method not found")
	}
	if err != nil {
		return QuoteChargeOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !method.IsActive {
		return QuoteChargeOutput{}, NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "shipping method is not available")
	}

	//ゾーンが消えていたら算出不能
	if _, err := u.zoneRepo.FindByID(ctx, method.ZoneID); err != nil {
		if err == repo.ErrNotFound {
			return QuoteChargeOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping zone not found")
		}
		return QuoteChargeOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	charge := ComputeCharge(method, in.Subtotal, EstimatedWeight(in.TotalItems))

	return QuoteChargeOutput{
		MethodID:       method.ID,
		MethodName:     method.Name,
		EstimatedDays:  method.EstimatedDays,
		ShippingCharge: charge,
	}, nil
}

func (u *ShippingUsecase) ListAllMethods(ctx context.Context) ([]model.ShippingMethod, error) {
	methods, err := u.methodRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return methods, nil
}

type UpdateMethodInput struct {
	Name                  *string              `json:"name"`
	Description           *string              `json:"description"`
	PricingType           *string              `json:"pricing_type"`
	BasePrice             *decimal.Decimal     `json:"base_price"`
	PercentageRate        *decimal.Decimal     `json:"percentage_rate"`
	WeightRate            *decimal.Decimal     `json:"weight_rate"`
	FreeShippingThreshold *decimal.Decimal     `json:"free_shipping_threshold"`
	EstimatedDays         *model.EstimatedDays `json:"estimated_days"`
	Priority              *int                 `json:"priority"`
	IsActive              *bool                `json:"is_active"`
}

func (u *ShippingUsecase) UpdateMethod(ctx context.Context, methodID int64, in UpdateMethodInput) (model.ShippingMethod, error) {
	if methodID <= 0 {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid id")
	}

	method, err := u.methodRepo.FindByID(ctx, methodID)
	if err == repo.ErrNotFound {
		return model.ShippingMethod{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping method not found")
	}
	if err != nil {
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "name is required")
		}
		method.Name = name
	}
	if in.Description != nil {
		method.Description = *in.Description
	}
	if in.PricingType != nil {
		pt := model.PricingType(*in.PricingType)
		if !pt.Valid() {
			return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid pricing_type")
		}
		method.PricingType = pt
	}
	if in.BasePrice != nil {
		method.BasePrice = *in.BasePrice
	}
	if in.PercentageRate != nil {
		method.PercentageRate = *in.PercentageRate
	}
	if in.WeightRate != nil {
		method.WeightRate = *in.WeightRate
	}
	if in.FreeShippingThreshold != nil {
		method.FreeShippingThreshold = *in.FreeShippingThreshold
	}
	if in.EstimatedDays != nil {
		if in.EstimatedDays.Min < 1 || in.EstimatedDays.Max < in.EstimatedDays.Min {
			return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid estimated_days")
		}
		method.EstimatedDays = *in.EstimatedDays
	}
	if in.Priority != nil {
		method.Priority = *in.Priority
	}
	if in.IsActive != nil {
		method.IsActive = *in.IsActive
	}

	if err := u.methodRepo.Save(ctx, method); err != nil {
		if err == repo.ErrNotFound {
			return model.ShippingMethod{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping method not found")
		}
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return method, nil
}

func (u *ShippingUsecase) DeleteMethod(ctx context.Context, methodID int64) error {
	if methodID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "invalid id")
	}

	err := u.methodRepo.Delete(ctx, methodID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping method not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}
