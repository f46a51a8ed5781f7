package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

func newCartUC() (*usecase.CartUsecase, *TxReposMock) {
	r := newTxReposMock()
	return usecase.NewCartUsecase(&TxManagerMock{Repos: r}), r
}

// =====================
// AddLine
// =====================

func TestAddLine_InvalidQuantity(t *testing.T) {
	uc, _ := newCartUC()

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{MenuID: 10, Quantity: 0})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidQuantity)
}

func TestAddLine_MenuNotFound(t *testing.T) {
	uc, r := newCartUC()
	r.menus.On("FindByID", mock.Anything, int64(10)).Return(model.Menu{}, repo.ErrNotFound)

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{MenuID: 10, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

func TestAddLine_InactiveMenuHidden(t *testing.T) {
	uc, r := newCartUC()
	r.menus.On("FindByID", mock.Anything, int64(10)).Return(model.Menu{ID: 10, IsActive: false}, nil)

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{MenuID: 10, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

func TestAddLine_DuplicateLine(t *testing.T) {
	uc, r := newCartUC()
	r.menus.On("FindByID", mock.Anything, int64(10)).Return(model.Menu{ID: 10, IsActive: true, Price: dec("120")}, nil)
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	r.cartItems.On("FindByCartAndMenu", mock.Anything, int64(5), int64(10)).Return(model.CartItem{ID: 2}, nil)

	_, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{MenuID: 10, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeDuplicateLine)
}

func TestAddLine_Success(t *testing.T) {
	uc, r := newCartUC()
	menu := model.Menu{ID: 10, Name: "Beef Burger", IsActive: true, Price: dec("120.50")}

	r.menus.On("FindByID", mock.Anything, int64(10)).Return(menu, nil)
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	r.cartItems.On("FindByCartAndMenu", mock.Anything, int64(5), int64(10)).Return(model.CartItem{}, repo.ErrNotFound)
	r.cartItems.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		// 単価スナップショットと行合計
		return it.CartID == 5 && it.Quantity == 2 && it.LineTotal.Equal(dec("241"))
	})).Return(nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, MenuID: 10, Quantity: 2, UnitPriceSnapshot: dec("120.50"), LineTotal: dec("241")},
	}, nil)
	r.carts.On("Save", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		return c.Subtotal.Equal(dec("241")) && c.GrandTotal.Equal(dec("241"))
	})).Return(nil)

	out, err := uc.AddLine(context.Background(), 1, usecase.AddLineInput{MenuID: 10, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.TotalItems)
	assert.True(t, out.Subtotal.Equal(dec("241")))
	r.cartItems.AssertExpectations(t)
	r.carts.AssertExpectations(t)
}

// =====================
// UpdateLineQuantity / RemoveLine
// =====================

func TestUpdateLineQuantity_NotInCart(t *testing.T) {
	uc, r := newCartUC()
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5}, nil)
	r.cartItems.On("FindByCartAndMenu", mock.Anything, int64(5), int64(10)).Return(model.CartItem{}, repo.ErrNotFound)

	_, err := uc.UpdateLineQuantity(context.Background(), 1, 10, 3)
	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

func TestUpdateLineQuantity_RecomputesLineTotal(t *testing.T) {
	uc, r := newCartUC()
	item := model.CartItem{ID: 2, CartID: 5, MenuID: 10, Quantity: 1, UnitPriceSnapshot: dec("99.99"), LineTotal: dec("99.99")}

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5}, nil)
	r.cartItems.On("FindByCartAndMenu", mock.Anything, int64(5), int64(10)).Return(item, nil)
	r.cartItems.On("UpdateQuantity", mock.Anything, int64(2), int64(3), dec("299.97")).Return(nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 2, CartID: 5, MenuID: 10, Quantity: 3, UnitPriceSnapshot: dec("99.99"), LineTotal: dec("299.97")},
	}, nil)
	r.menus.On("FindByID", mock.Anything, int64(10)).Return(model.Menu{ID: 10, Name: "Pasta"}, nil)
	r.carts.On("Save", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.UpdateLineQuantity(context.Background(), 1, 10, 3)
	assert.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("299.97")))
	r.cartItems.AssertExpectations(t)
}

func TestRemoveLine_Success(t *testing.T) {
	uc, r := newCartUC()

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5}, nil)
	r.cartItems.On("FindByCartAndMenu", mock.Anything, int64(5), int64(10)).Return(model.CartItem{ID: 2}, nil)
	r.cartItems.On("DeleteByID", mock.Anything, int64(2)).Return(nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)
	r.carts.On("Save", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		return c.Subtotal.IsZero() && c.GrandTotal.IsZero()
	})).Return(nil)

	out, err := uc.RemoveLine(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestClear_AlwaysSucceeds(t *testing.T) {
	uc, r := newCartUC()

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5}, nil)
	r.carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)
	r.carts.On("Save", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Clear(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.TotalItems)
}

// =====================
// 住所と配送方法
// =====================

func TestSetShippingAddress_ClearsSelectedMethod(t *testing.T) {
	uc, r := newCartUC()

	methodID := int64(7)
	cart := model.Cart{
		ID:                       5,
		SelectedShippingMethodID: &methodID,
		ShippingCharge:           dec("60"),
	}

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(cart, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)
	r.carts.On("Save", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		// 住所変更で選択済み方法と送料が消える
		return c.SelectedShippingMethodID == nil && c.ShippingCharge.IsZero() && c.ShippingAddress.Country == "Bangladesh"
	})).Return(nil)

	out, err := uc.SetShippingAddress(context.Background(), 1, model.ShippingAddress{
		Country: "Bangladesh",
		City:    "Dhaka",
	})
	assert.NoError(t, err)
	assert.Nil(t, out.SelectedShippingMethodID)
	assert.True(t, out.ShippingCharge.IsZero())
	r.carts.AssertExpectations(t)
}

func TestSetShippingAddress_RequiresCountry(t *testing.T) {
	uc, _ := newCartUC()

	_, err := uc.SetShippingAddress(context.Background(), 1, model.ShippingAddress{City: "Dhaka"})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)
}

func TestApplyShippingMethod_RequiresAddress(t *testing.T) {
	uc, r := newCartUC()
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5}, nil)

	_, err := uc.ApplyShippingMethod(context.Background(), 1, 7)
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodePreconditionFailed)
}

func TestApplyShippingMethod_InactiveMethod(t *testing.T) {
	uc, r := newCartUC()
	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{
		ID:              5,
		ShippingAddress: model.ShippingAddress{Country: "Bangladesh"},
	}, nil)
	r.methods.On("FindByID", mock.Anything, int64(7)).Return(model.ShippingMethod{ID: 7, IsActive: false}, nil)

	_, err := uc.ApplyShippingMethod(context.Background(), 1, 7)
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodePreconditionFailed)
}

func TestApplyShippingMethod_ComputesCharge(t *testing.T) {
	uc, r := newCartUC()

	r.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{
		ID:              5,
		ShippingAddress: model.ShippingAddress{Country: "Bangladesh"},
	}, nil)
	r.methods.On("FindByID", mock.Anything, int64(7)).Return(model.ShippingMethod{
		ID:          7,
		PricingType: model.PricingTypeFixed,
		BasePrice:   dec("60"),
		IsActive:    true,
	}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, MenuID: 10, Quantity: 2, UnitPriceSnapshot: dec("120"), LineTotal: dec("240")},
	}, nil)
	r.menus.On("FindByID", mock.Anything, int64(10)).Return(model.Menu{ID: 10, Name: "Burger"}, nil)
	r.carts.On("Save", mock.Anything, mock.MatchedBy(func(c model.Cart) bool {
		return c.ShippingCharge.Equal(dec("60")) && c.GrandTotal.Equal(dec("300"))
	})).Return(nil)

	out, err := uc.ApplyShippingMethod(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.True(t, out.GrandTotal.Equal(dec("300")))
	r.carts.AssertExpectations(t)
}
