package gateway

import (
	"context"
	"sync"

	"github.com/parvejme24/bistro-boss-server/internal/repository"
)

// 管理設定ストアから資格情報を読むProvider。
// 読み出しごとのlazy生成ではなく、キャッシュ＋明示的Reloadで運用する。
type AdminConfigProvider struct {
	repo repository.AdminConfigRepository

	mu     sync.RWMutex
	cached *Config
}

func NewAdminConfigProvider(repo repository.AdminConfigRepository) *AdminConfigProvider {
	return &AdminConfigProvider{repo: repo}
}

func (p *AdminConfigProvider) Current(ctx context.Context) (Config, error) {
	p.mu.RLock()
	if p.cached != nil {
		cfg := *p.cached
		p.mu.RUnlock()
		return cfg, nil
	}
	p.mu.RUnlock()

	return p.Reload(ctx)
}

// 管理設定を更新したら必ず呼ぶ
func (p *AdminConfigProvider) Reload(ctx context.Context) (Config, error) {
	ac, err := p.repo.GetOrCreate(ctx)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreID:       ac.StoreID,
		StorePassword: ac.StorePassword,
		IsLive:        ac.IsLive,
		Active:        ac.GatewayActive,
		Currency:      ac.Currency,
	}

	p.mu.Lock()
	p.cached = &cfg
	p.mu.Unlock()

	return cfg, nil
}
