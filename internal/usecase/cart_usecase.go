package usecase

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

// カートの業務ロジック。
// 同一ユーザーの操作はACTIVEカート行のロックで直列化する（カートは1ユーザー専有）。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartLineResponse struct {
	MenuID    int64           `json:"menu_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID                       int64                 `json:"id"`
	Items                    []CartLineResponse    `json:"items"`
	TotalItems               int64                 `json:"total_items"`
	Subtotal                 decimal.Decimal       `json:"subtotal"`
	ShippingAddress          model.ShippingAddress `json:"shipping_address"`
	SelectedShippingMethodID *int64                `json:"selected_shipping_method_id"`
	ShippingCharge           decimal.Decimal       `json:"shipping_charge"`
	GrandTotal               decimal.Decimal       `json:"grand_total"`
}

type AddLineInput struct {
	MenuID   int64
	Quantity int64
}

// カート取得（無ければACTIVEを作って空を返す）
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		out, err = u.buildResponse(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細追加。既にある menu は DuplicateLine（数量変更は update で行う）。
func (u *CartUsecase) AddLine(ctx context.Context, userID int64, in AddLineInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidQuantity, "quantity must be at least 1")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		menu, err := r.Menus().FindByID(ctx, in.MenuID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "menu not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !menu.IsActive {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "menu not found")
		}

		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//二重追加チェック。ユニーク制約の前にここで弾いて明確なコードを返す
		if _, err := r.CartItems().FindByCartAndMenu(ctx, cart.ID, in.MenuID); err == nil {
			return NewHTTPError(http.StatusBadRequest, CodeDuplicateLine, "item already exists in cart, use update quantity instead")
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		line := model.CartItem{
			CartID:            cart.ID,
			MenuID:            in.MenuID,
			Quantity:          in.Quantity,
			UnitPriceSnapshot: menu.Price,
			LineTotal:         menu.Price.Mul(decimal.NewFromInt(in.Quantity)).Round(2),
		}
		if err := r.CartItems().Create(ctx, line); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

func (u *CartUsecase) UpdateLineQuantity(ctx context.Context, userID int64, menuID int64, qty int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if qty < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidQuantity, "quantity must be at least 1")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		item, err := r.CartItems().FindByCartAndMenu(ctx, cart.ID, menuID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "item not found in cart")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		lineTotal := item.UnitPriceSnapshot.Mul(decimal.NewFromInt(qty)).Round(2)
		if err := r.CartItems().UpdateQuantity(ctx, item.ID, qty, lineTotal); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, menuID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		item, err := r.CartItems().FindByCartAndMenu(ctx, cart.ID, menuID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "item not found in cart")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 全明細を削除して合計をゼロに。常に成功する。
func (u *CartUsecase) Clear(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 住所変更。配送方法の適用可否が変わるので選択済み方法と送料は必ずクリア。
func (u *CartUsecase) SetShippingAddress(ctx context.Context, userID int64, addr model.ShippingAddress) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if !addr.IsSet() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "country is required")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		cart.ShippingAddress = addr
		cart.SelectedShippingMethodID = nil
		cart.ShippingCharge = decimal.Zero

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 配送方法の適用。住所が未設定なら前提条件エラー。
func (u *CartUsecase) ApplyShippingMethod(ctx context.Context, userID int64, methodID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if methodID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "method_id is required")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !cart.ShippingAddress.IsSet() {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "set shipping address first")
		}

		method, err := r.ShippingMethods().FindByID(ctx, methodID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "shipping method not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !method.IsActive {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "shipping method is not available")
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		subtotal := decimal.Zero
		var totalItems int64 = 0
		for _, it := range items {
			subtotal = subtotal.Add(it.LineTotal)
			totalItems += it.Quantity
		}

		charge := ComputeCharge(method, subtotal, EstimatedWeight(totalItems))

		cart.SelectedShippingMethodID = &method.ID
		cart.ShippingCharge = charge

		out, err = u.recompute(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細から合計を出し直して保存する。すべてのミューテーションの最後に通る。
func (u *CartUsecase) recompute(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}

	cart.Subtotal = subtotal.Round(2)
	cart.GrandTotal = cart.Subtotal.Add(cart.ShippingCharge).Round(2)

	if err := r.Carts().Save(ctx, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return u.toResponse(ctx, r, cart, items)
}

func (u *CartUsecase) buildResponse(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return u.toResponse(ctx, r, cart, items)
}

func (u *CartUsecase) toResponse(ctx context.Context, r repo.TxRepos, cart model.Cart, items []model.CartItem) (CartResponse, error) {
	lines := make([]CartLineResponse, 0, len(items))
	var totalItems int64 = 0

	for _, it := range items {
		name := ""
		if menu, err := r.Menus().FindByID(ctx, it.MenuID); err == nil {
			name = menu.Name
		}

		lines = append(lines, CartLineResponse{
			MenuID:    it.MenuID,
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
			LineTotal: it.LineTotal,
		})
		totalItems += it.Quantity
	}

	return CartResponse{
		ID:                       cart.ID,
		Items:                    lines,
		TotalItems:               totalItems,
		Subtotal:                 cart.Subtotal,
		ShippingAddress:          cart.ShippingAddress,
		SelectedShippingMethodID: cart.SelectedShippingMethodID,
		ShippingCharge:           cart.ShippingCharge,
		GrandTotal:               cart.GrandTotal,
	}, nil
}
