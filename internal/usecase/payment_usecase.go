package usecase

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

type CallbackKind string

const (
	CallbackSuccess CallbackKind = "success"
	CallbackFail    CallbackKind = "fail"
	CallbackCancel  CallbackKind = "cancel"
	CallbackIPN     CallbackKind = "ipn"
)

// コールバックの真偽はゲートウェイ側に問い直して確かめる
type GatewayValidator interface {
	ValidatePayment(ctx context.Context, valID, amount, currency string) (gateway.ValidationResult, error)
}

type PaymentUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
	validator GatewayValidator
}

func NewPaymentUsecase(tx repo.TransactionManager, orderRepo repo.OrderRepository, validator GatewayValidator) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, orderRepo: orderRepo, validator: validator}
}

type CallbackInput struct {
	TranID     string
	ValID      string
	Amount     string
	Currency   string
	Status     string
	RawPayload string
}

type CallbackResult struct {
	OrderFound    bool                `json:"order_found"`
	OrderNumber   string              `json:"order_number,omitempty"`
	OrderStatus   model.OrderStatus   `json:"order_status,omitempty"`
	PaymentStatus model.PaymentStatus `json:"payment_status,omitempty"`
}

// ゲートウェイからのコールバック処理。
// success / ipn は検証API往復のあとにロックして反映する。
// 検証の往復中にロックは持たない。
func (u *PaymentUsecase) HandleCallback(ctx context.Context, kind CallbackKind, in CallbackInput) (CallbackResult, error) {
	if in.TranID == "" {
		return CallbackResult{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "tran_id is required")
	}

	order, err := u.orderRepo.FindByTransactionID(ctx, in.TranID)
	if err == repo.ErrNotFound {
		// 知らないtran_idでもゲートウェイには200を返して再送の嵐を止める
		log.Printf("payment callback for unknown transaction: kind=%s tran_id=%s", kind, in.TranID)
		return CallbackResult{OrderFound: false}, nil
	}
	if err != nil {
		return CallbackResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	switch kind {
	case CallbackSuccess, CallbackIPN:
		return u.applySuccess(ctx, order, in)
	case CallbackFail:
		return u.applyTerminal(ctx, order, in, model.PaymentStatusFailed)
	case CallbackCancel:
		return u.applyTerminal(ctx, order, in, model.PaymentStatusCancelled)
	}
	return CallbackResult{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "unknown callback kind")
}

func (u *PaymentUsecase) applySuccess(ctx context.Context, order model.Order, in CallbackInput) (CallbackResult, error) {
	// 再送。もう完了しているなら何もしない。
	if order.Payment.Status == model.PaymentStatusCompleted {
		return resultOf(order), nil
	}

	if in.ValID == "" {
		return CallbackResult{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "val_id is required")
	}

	validation, err := u.validator.ValidatePayment(ctx, in.ValID, order.GrandTotal.StringFixed(2), order.Payment.Currency)
	if err != nil {
		log.Printf("payment validation unreachable: order=%s err=%v", order.OrderNumber, err)
		return CallbackResult{}, NewHTTPError(http.StatusBadGateway, CodeGatewayUnavailable, "payment gateway validation failed")
	}
	if !validation.IsValid() || validation.TranID != in.TranID {
		// 偽装か金額不一致。失敗として記録する。
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			locked, err := r.Orders().FindByTransactionIDForUpdate(ctx, in.TranID)
			if err != nil {
				return err
			}
			if locked.Payment.Status == model.PaymentStatusCompleted {
				return nil
			}
			locked.Payment.Status = model.PaymentStatusFailed
			locked.Payment.GatewayResponse = validation.Raw
			return r.Orders().Save(ctx, locked)
		})
		if err != nil {
			return CallbackResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		return CallbackResult{}, NewHTTPError(http.StatusBadRequest, CodeValidationFailed, "payment could not be verified")
	}

	var out CallbackResult
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		locked, err := r.Orders().FindByTransactionIDForUpdate(ctx, in.TranID)
		if err != nil {
			return err
		}
		// 検証中に別コールバックが先へ進めた場合
		if locked.Payment.Status == model.PaymentStatusCompleted {
			out = resultOf(locked)
			return nil
		}

		now := time.Now()
		locked.Payment.Status = model.PaymentStatusCompleted
		locked.Payment.GatewayResponse = validation.Raw
		if locked.Payment.PaidAt == nil {
			locked.Payment.PaidAt = &now
		}
		if locked.Status.CanTransitionTo(model.OrderStatusConfirmed) {
			locked.Status = model.OrderStatusConfirmed
		}

		if err := r.Orders().Save(ctx, locked); err != nil {
			return err
		}
		out = resultOf(locked)
		return nil
	})
	if err != nil {
		return CallbackResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return out, nil
}

// fail / cancel は検証なしで記録する。完了済みは格下げしない。
func (u *PaymentUsecase) applyTerminal(ctx context.Context, order model.Order, in CallbackInput, status model.PaymentStatus) (CallbackResult, error) {
	var out CallbackResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		locked, err := r.Orders().FindByTransactionIDForUpdate(ctx, in.TranID)
		if err != nil {
			return err
		}
		if locked.Payment.Status == model.PaymentStatusCompleted {
			out = resultOf(locked)
			return nil
		}

		locked.Payment.Status = status
		if in.RawPayload != "" {
			locked.Payment.GatewayResponse = in.RawPayload
		}

		if err := r.Orders().Save(ctx, locked); err != nil {
			return err
		}
		out = resultOf(locked)
		return nil
	})
	if err != nil {
		return CallbackResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return out, nil
}

func resultOf(o model.Order) CallbackResult {
	return CallbackResult{
		OrderFound:    true,
		OrderNumber:   o.OrderNumber,
		OrderStatus:   o.Status,
		PaymentStatus: o.Payment.Status,
	}
}
