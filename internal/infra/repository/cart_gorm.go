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

// CartRepository と CartItemRepository のGORM実装
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのACTIVEカートを取得し、無ければ作成。
// 同一ユーザーの操作を直列化するため FOR UPDATE で取る。
func (r *CartGormRepository) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		now := time.Now()
		newCart := model.Cart{
			UserID:         userID,
			Status:         model.CartStatusActive,
			Subtotal:       decimal.Zero,
			ShippingCharge: decimal.Zero,
			GrandTotal:     decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := tx.Create(&newCart).Error; err != nil {
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		// 部分ユニークインデックスに弾かれた側は勝った行を取り直す。
		// アボートしたトランザクションの中では再検索できないのでここで行う。
		if winner, ferr := r.FindActiveByUserID(ctx, userID); ferr == nil {
			return winner, nil
		}
		return model.Cart{}, err
	}
	return cart, nil
}

// ユーザーのACTIVEカートを取得
func (r *CartGormRepository) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 住所・配送方法・合計を含めてカート本体を更新
func (r *CartGormRepository) Save(ctx context.Context, cart model.Cart) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cart.ID).
		Select("ship_country", "ship_state", "ship_city", "ship_zip_code", "ship_address",
			"selected_shipping_method_id", "subtotal", "shipping_charge", "grand_total", "updated_at").
		Updates(map[string]interface{}{
			"ship_country":                cart.ShippingAddress.Country,
			"ship_state":                  cart.ShippingAddress.State,
			"ship_city":                   cart.ShippingAddress.City,
			"ship_zip_code":               cart.ShippingAddress.ZipCode,
			"ship_address":                cart.ShippingAddress.Address,
			"selected_shipping_method_id": cart.SelectedShippingMethodID,
			"subtotal":                    cart.Subtotal,
			"shipping_charge":             cart.ShippingCharge,
			"grand_total":                 cart.GrandTotal,
			"updated_at":                  time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// carts.statusを更新
func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

func (r *CartGormRepository) FindByCartAndMenu(ctx context.Context, cartID int64, menuID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND menu_id = ?", cartID, menuID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 明細を新規作成。(cart_id, menu_id) のユニーク制約で二重追加を防ぐ。
func (r *CartGormRepository) Create(ctx context.Context, item model.CartItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

// 明細の数量と行合計を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, lineTotal decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"line_total": lineTotal,
			"updated_at": time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
