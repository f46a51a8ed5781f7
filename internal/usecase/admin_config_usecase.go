package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type AdminConfigUsecase struct {
	repo     repo.AdminConfigRepository
	provider *gateway.AdminConfigProvider
}

func NewAdminConfigUsecase(r repo.AdminConfigRepository, provider *gateway.AdminConfigProvider) *AdminConfigUsecase {
	return &AdminConfigUsecase{repo: r, provider: provider}
}

func (u *AdminConfigUsecase) Get(ctx context.Context) (model.AdminConfig, error) {
	cfg, err := u.repo.GetOrCreate(ctx)
	if err != nil {
		return model.AdminConfig{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return cfg, nil
}

type UpdateConfigInput struct {
	StoreID            *string
	StorePassword      *string
	IsLive             *bool
	GatewayActive      *bool
	Currency           *string
	SiteName           *string
	MinimumOrderAmount *decimal.Decimal
}

// 部分更新。保存後にProviderのキャッシュを必ず入れ替える。
func (u *AdminConfigUsecase) Update(ctx context.Context, in UpdateConfigInput) (model.AdminConfig, error) {
	cfg, err := u.repo.GetOrCreate(ctx)
	if err != nil {
		return model.AdminConfig{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if in.StoreID != nil {
		if *in.StoreID == "" {
			return model.AdminConfig{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "store_id cannot be empty")
		}
		cfg.StoreID = *in.StoreID
	}
	if in.StorePassword != nil {
		if *in.StorePassword == "" {
			return model.AdminConfig{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "store_password cannot be empty")
		}
		cfg.StorePassword = *in.StorePassword
	}
	if in.IsLive != nil {
		cfg.IsLive = *in.IsLive
	}
	if in.GatewayActive != nil {
		cfg.GatewayActive = *in.GatewayActive
	}
	if in.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(c) != 3 {
			return model.AdminConfig{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "currency must be a 3-letter code")
		}
		cfg.Currency = c
	}
	if in.SiteName != nil {
		cfg.SiteName = *in.SiteName
	}
	if in.MinimumOrderAmount != nil {
		if in.MinimumOrderAmount.IsNegative() {
			return model.AdminConfig{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "minimum_order_amount cannot be negative")
		}
		cfg.MinimumOrderAmount = *in.MinimumOrderAmount
	}

	if err := u.repo.Save(ctx, cfg); err != nil {
		return model.AdminConfig{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if _, err := u.provider.Reload(ctx); err != nil {
		return model.AdminConfig{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return cfg, nil
}
