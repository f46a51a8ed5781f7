package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

func newPaymentUC(r *TxReposMock, v *ValidatorMock) *usecase.PaymentUsecase {
	return usecase.NewPaymentUsecase(&TxManagerMock{Repos: r}, r.orders, v)
}

func pendingGatewayOrder() model.Order {
	return model.Order{
		ID:          100,
		OrderNumber: "BB2509010001",
		UserID:      1,
		GrandTotal:  dec("300"),
		Status:      model.OrderStatusPending,
		Payment: model.Payment{
			Method:        model.PaymentMethodSSLCommerz,
			Status:        model.PaymentStatusPending,
			TransactionID: "TXN123abc",
			Amount:        dec("300"),
			Currency:      "BDT",
		},
	}
}

func TestHandleCallback_RequiresTranID(t *testing.T) {
	uc := newPaymentUC(newTxReposMock(), new(ValidatorMock))

	_, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)
}

// 知らないtran_idはエラーにせず受領扱い（ゲートウェイの再送を止める）
func TestHandleCallback_UnknownTransactionAcknowledged(t *testing.T) {
	r := newTxReposMock()
	r.orders.On("FindByTransactionID", mock.Anything, "TXNnope").Return(model.Order{}, repo.ErrNotFound)

	uc := newPaymentUC(r, new(ValidatorMock))

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{TranID: "TXNnope"})
	assert.NoError(t, err)
	assert.False(t, out.OrderFound)
}

func TestHandleCallback_SuccessValidated(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("Save", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Payment.Status == model.PaymentStatusCompleted &&
			o.Payment.PaidAt != nil &&
			o.Status == model.OrderStatusConfirmed
	})).Return(nil)

	v := new(ValidatorMock)
	v.On("ValidatePayment", mock.Anything, "VAL999", "300.00", "BDT").Return(gateway.ValidationResult{
		Status: "VALID",
		TranID: "TXN123abc",
		ValID:  "VAL999",
	}, nil)

	uc := newPaymentUC(r, v)

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{
		TranID: "TXN123abc",
		ValID:  "VAL999",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, out.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, out.OrderStatus)
	r.orders.AssertExpectations(t)
	v.AssertExpectations(t)
}

// 再送されたsuccessは検証せず現状を返すだけ
func TestHandleCallback_SuccessIdempotentReplay(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()
	paidAt := time.Now()
	order.Payment.Status = model.PaymentStatusCompleted
	order.Payment.PaidAt = &paidAt
	order.Status = model.OrderStatusConfirmed

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)

	v := new(ValidatorMock)

	uc := newPaymentUC(r, v)

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{
		TranID: "TXN123abc",
		ValID:  "VAL999",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, out.PaymentStatus)
	v.AssertNotCalled(t, "ValidatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	r.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleCallback_ValidationRejectedRecordsFailure(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("Save", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Payment.Status == model.PaymentStatusFailed
	})).Return(nil)

	v := new(ValidatorMock)
	v.On("ValidatePayment", mock.Anything, "VAL999", "300.00", "BDT").Return(gateway.ValidationResult{
		Status: "INVALID_TRANSACTION",
		TranID: "TXN123abc",
	}, nil)

	uc := newPaymentUC(r, v)

	_, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{
		TranID: "TXN123abc",
		ValID:  "VAL999",
	})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidationFailed)
	r.orders.AssertExpectations(t)
}

// 検証で返ったtran_idが別物なら偽装として弾く
func TestHandleCallback_TranIDMismatchRejected(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

	v := new(ValidatorMock)
	v.On("ValidatePayment", mock.Anything, "VAL999", "300.00", "BDT").Return(gateway.ValidationResult{
		Status: "VALID",
		TranID: "TXNother",
	}, nil)

	uc := newPaymentUC(r, v)

	_, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{
		TranID: "TXN123abc",
		ValID:  "VAL999",
	})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidationFailed)
}

func TestHandleCallback_ValidatorUnreachable(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()
	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)

	v := new(ValidatorMock)
	v.On("ValidatePayment", mock.Anything, "VAL999", "300.00", "BDT").Return(gateway.ValidationResult{}, fmt.Errorf("timeout"))

	uc := newPaymentUC(r, v)

	_, err := uc.HandleCallback(context.Background(), usecase.CallbackSuccess, usecase.CallbackInput{
		TranID: "TXN123abc",
		ValID:  "VAL999",
	})
	assertHTTPError(t, err, http.StatusBadGateway, usecase.CodeGatewayUnavailable)
	r.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleCallback_FailRecordsFailure(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("Save", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Payment.Status == model.PaymentStatusFailed
	})).Return(nil)

	uc := newPaymentUC(r, new(ValidatorMock))

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackFail, usecase.CallbackInput{TranID: "TXN123abc"})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, out.PaymentStatus)
}

// 完了済みの支払いはfail/cancelで格下げされない
func TestHandleCallback_FailDoesNotDowngradeCompleted(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()
	order.Payment.Status = model.PaymentStatusCompleted

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)

	uc := newPaymentUC(r, new(ValidatorMock))

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackFail, usecase.CallbackInput{TranID: "TXN123abc"})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, out.PaymentStatus)
	r.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleCallback_CancelRecordsCancelled(t *testing.T) {
	r := newTxReposMock()
	order := pendingGatewayOrder()

	r.orders.On("FindByTransactionID", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("FindByTransactionIDForUpdate", mock.Anything, "TXN123abc").Return(order, nil)
	r.orders.On("Save", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Payment.Status == model.PaymentStatusCancelled
	})).Return(nil)

	uc := newPaymentUC(r, new(ValidatorMock))

	out, err := uc.HandleCallback(context.Background(), usecase.CallbackCancel, usecase.CallbackInput{TranID: "TXN123abc"})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, out.PaymentStatus)
}
