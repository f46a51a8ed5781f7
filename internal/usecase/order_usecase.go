package usecase

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

const orderNumberPrefix = "BB"

// ゲートウェイセッション作成の約束。本番は SSLCommerzClient、テストはモック。
type GatewaySessionCreator interface {
	CreateSession(ctx context.Context, in gateway.SessionInput) (gateway.SessionResult, error)
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
	itemRepo  repo.OrderItemRepository
	cfgRepo   repo.AdminConfigRepository
	sessions  GatewaySessionCreator

	// コールバックURLの組み立てに使う自サーバーの公開URL
	backendURL string
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	itemRepo repo.OrderItemRepository,
	cfgRepo repo.AdminConfigRepository,
	sessions GatewaySessionCreator,
	backendURL string,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		cfgRepo:    cfgRepo,
		sessions:   sessions,
		backendURL: backendURL,
	}
}

type PlaceOrderInput struct {
	PaymentMethod model.PaymentMethod
	Notes         string

	// ゲートウェイに渡す顧客情報
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type OrderItemResponse struct {
	MenuID    int64           `json:"menu_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID                 int64                 `json:"id"`
	OrderNumber        string                `json:"order_number"`
	UserID             int64                 `json:"user_id"`
	Items              []OrderItemResponse   `json:"items,omitempty"`
	TotalItems         int64                 `json:"total_items"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	ShippingCharge     decimal.Decimal       `json:"shipping_charge"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	ShippingAddress    model.ShippingAddress `json:"shipping_address"`
	Status             model.OrderStatus     `json:"status"`
	PaymentMethod      model.PaymentMethod   `json:"payment_method"`
	PaymentStatus      model.PaymentStatus   `json:"payment_status"`
	Notes              string                `json:"notes,omitempty"`
	EstimatedDelivery  *time.Time            `json:"estimated_delivery,omitempty"`
	DeliveredAt        *time.Time            `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

type PlaceOrderResult struct {
	Order OrderResponse `json:"order"`
	// ゲートウェイ決済のときだけ入る
	PaymentURL string `json:"payment_url,omitempty"`
	// セッション作成に失敗しても注文は残す。理由だけ伝える。
	GatewayError string `json:"gateway_error,omitempty"`
}

// チェックアウト。カートを固まりで注文に写し取り、カートを閉じる。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderResult, error) {
	if userID <= 0 {
		return PlaceOrderResult{}, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if !in.PaymentMethod.Valid() {
		return PlaceOrderResult{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "unknown payment method")
	}

	cfg, err := u.cfgRepo.GetOrCreate(ctx)
	if err != nil {
		return PlaceOrderResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	var (
		order model.Order
		lines []model.OrderItem
	)
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}
		if !cart.ShippingAddress.IsSet() {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "set shipping address first")
		}
		if cart.SelectedShippingMethodID == nil {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "select a shipping method first")
		}

		method, err := r.ShippingMethods().FindByID(ctx, *cart.SelectedShippingMethodID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "selected shipping method no longer exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !method.IsActive {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed, "shipping method is not available")
		}

		// 保存値を信用せず明細から出し直す
		subtotal := decimal.Zero
		var totalItems int64 = 0
		for _, it := range items {
			subtotal = subtotal.Add(it.LineTotal)
			totalItems += it.Quantity
		}
		subtotal = subtotal.Round(2)
		charge := ComputeCharge(method, subtotal, EstimatedWeight(totalItems))
		grand := subtotal.Add(charge).Round(2)

		if grand.LessThan(cfg.MinimumOrderAmount) {
			return NewHTTPError(http.StatusBadRequest, CodePreconditionFailed,
				fmt.Sprintf("minimum order amount is %s", cfg.MinimumOrderAmount.StringFixed(2)))
		}

		now := time.Now()
		day := now.Format("060102")
		seq, err := r.Sequences().Next(ctx, day)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		payment := model.Payment{
			Method:   in.PaymentMethod,
			Status:   model.PaymentStatusPending,
			Amount:   grand,
			Currency: cfg.Currency,
		}
		if in.PaymentMethod.IsGateway() {
			payment.TransactionID = gateway.NewTransactionID()
		} else {
			// 非ゲートウェイ（代引き・銀行振込）は作成時点で completed
			payment.Status = model.PaymentStatusCompleted
			payment.PaidAt = &now
		}

		estimated := now.AddDate(0, 0, method.EstimatedDays.Max)

		order = model.Order{
			OrderNumber:       fmt.Sprintf("%s%s%04d", orderNumberPrefix, day, seq),
			UserID:            userID,
			TotalItems:        totalItems,
			Subtotal:          subtotal,
			ShippingCharge:    charge,
			GrandTotal:        grand,
			ShippingAddress:   cart.ShippingAddress,
			ShippingMethodID:  method.ID,
			Status:            model.OrderStatusPending,
			Payment:           payment,
			Notes:             in.Notes,
			EstimatedDelivery: &estimated,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		order.ID = orderID

		lines = make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			name := ""
			if menu, err := r.Menus().FindByID(ctx, it.MenuID); err == nil {
				name = menu.Name
			}
			lines = append(lines, model.OrderItem{
				MenuID:            it.MenuID,
				MenuNameSnapshot:  name,
				Quantity:          it.Quantity,
				UnitPriceSnapshot: it.UnitPriceSnapshot,
				LineTotal:         it.LineTotal,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, lines); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return PlaceOrderResult{}, err
	}

	result := PlaceOrderResult{Order: toOrderResponse(order, lines)}

	// ゲートウェイセッションはコミット後に作る。失敗しても注文は消さない。
	if in.PaymentMethod.IsGateway() {
		session, err := u.sessions.CreateSession(ctx, gateway.SessionInput{
			TransactionID:   order.Payment.TransactionID,
			OrderNumber:     order.OrderNumber,
			Amount:          order.GrandTotal.StringFixed(2),
			Currency:        order.Payment.Currency,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			CustomerAddress: order.ShippingAddress.Address,
			CustomerCity:    order.ShippingAddress.City,
			CustomerZipCode: order.ShippingAddress.ZipCode,
			CustomerCountry: order.ShippingAddress.Country,
			SuccessURL:      u.backendURL + "/api/v1/payments/success",
			FailURL:         u.backendURL + "/api/v1/payments/fail",
			CancelURL:       u.backendURL + "/api/v1/payments/cancel",
			IPNURL:          u.backendURL + "/api/v1/payments/ipn",
		})
		if err != nil {
			log.Printf("payment session failed: order=%s err=%v", order.OrderNumber, err)
			result.GatewayError = "payment session could not be created, order is kept as pending"
			return result, nil
		}
		result.PaymentURL = session.GatewayPageURL
	}

	return result, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, f repo.OrderListFilter) ([]OrderResponse, int64, error) {
	if userID <= 0 {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return nil, 0, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "unknown status filter")
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, f)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, total, nil
}

// 他人の注文は存在ごと隠す
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if order.UserID != userID {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}

	items, err := u.itemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return toOrderResponse(order, items), nil
}

// キャンセル。本人か管理者のみ。delivered 以降は invalid_transition。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, isAdmin bool, orderID int64, reason string) (OrderResponse, error) {
	var out OrderResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if order.UserID != userID && !isAdmin {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		if !order.Status.IsCancellable() {
			return NewHTTPError(http.StatusConflict, CodeInvalidTransition,
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		now := time.Now()
		order.Status = model.OrderStatusCancelled
		order.CancelledAt = &now
		order.CancelledBy = &userID
		order.CancellationReason = reason
		if order.Payment.Status == model.PaymentStatusPending {
			order.Payment.Status = model.PaymentStatusCancelled
		}

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		out = toOrderResponse(order, nil)
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return out, nil
}

type UpdateStatusInput struct {
	Status            model.OrderStatus
	Notes             *string
	EstimatedDelivery *time.Time
}

// 管理者用のステータス遷移。1回に1エッジだけ進める。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, in UpdateStatusInput) (OrderResponse, error) {
	if !in.Status.Valid() {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "unknown status")
	}

	var out OrderResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !order.Status.CanTransitionTo(in.Status) {
			return NewHTTPError(http.StatusConflict, CodeInvalidTransition,
				fmt.Sprintf("cannot transition from %s to %s", order.Status, in.Status))
		}

		now := time.Now()
		order.Status = in.Status
		switch in.Status {
		case model.OrderStatusDelivered:
			if order.DeliveredAt == nil {
				order.DeliveredAt = &now
			}
		case model.OrderStatusCancelled:
			order.CancelledAt = &now
		case model.OrderStatusRefunded:
			// 回収済みの決済だけ返金扱いにする
			if order.Payment.Status == model.PaymentStatusCompleted {
				order.Payment.Status = model.PaymentStatusRefunded
			}
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		if in.EstimatedDelivery != nil {
			order.EstimatedDelivery = in.EstimatedDelivery
		}

		if err := r.Orders().Save(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		out = toOrderResponse(order, nil)
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderResponse, int64, error) {
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return nil, 0, NewHTTPError(http.StatusBadRequest, CodeInvalidInput, "unknown status filter")
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, f)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, total, nil
}

func (u *OrderUsecase) GetAdmin(ctx context.Context, orderID int64) (OrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "order not found")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	items, err := u.itemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return toOrderResponse(order, items), nil
}

func (u *OrderUsecase) Stats(ctx context.Context, periodDays int) (repo.OrderStats, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	stats, err := u.orderRepo.StatsSince(ctx, since)
	if err != nil {
		return repo.OrderStats{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return stats, nil
}

func toOrderResponse(o model.Order, items []model.OrderItem) OrderResponse {
	var lines []OrderItemResponse
	for _, it := range items {
		lines = append(lines, OrderItemResponse{
			MenuID:    it.MenuID,
			Name:      it.MenuNameSnapshot,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
			LineTotal: it.LineTotal,
		})
	}

	return OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		Items:              lines,
		TotalItems:         o.TotalItems,
		Subtotal:           o.Subtotal,
		ShippingCharge:     o.ShippingCharge,
		GrandTotal:         o.GrandTotal,
		ShippingAddress:    o.ShippingAddress,
		Status:             o.Status,
		PaymentMethod:      o.Payment.Method,
		PaymentStatus:      o.Payment.Status,
		Notes:              o.Notes,
		EstimatedDelivery:  o.EstimatedDelivery,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
	}
}
