package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

// ゲートウェイからのコールバック。認証なし（SSLCommerzのサーバー/ブラウザが叩く）。
// 真偽は usecase 側で検証APIに問い直す。
type PaymentHandler struct {
	uc          *usecase.PaymentUsecase
	frontendURL string
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase, frontendURL string) *PaymentHandler {
	return &PaymentHandler{uc: uc, frontendURL: frontendURL}
}

type CallbackRequest struct {
	TranID   string `form:"tran_id" json:"tran_id"`
	ValID    string `form:"val_id" json:"val_id"`
	Amount   string `form:"amount" json:"amount"`
	Currency string `form:"currency" json:"currency"`
	Status   string `form:"status" json:"status"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/payments")

	g.POST("/success", h.success)
	g.POST("/fail", h.fail)
	g.POST("/cancel", h.cancel)
	g.POST("/ipn", h.ipn)
}

// ブラウザリダイレクト。処理後はフロントの結果ページへ飛ばす。
func (h *PaymentHandler) success(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}

	out, err := h.uc.HandleCallback(c.Request().Context(), usecase.CallbackSuccess, req)
	if err != nil {
		return h.redirect(c, "failed", req.TranID)
	}
	if !out.OrderFound {
		return h.redirect(c, "unknown", req.TranID)
	}

	return h.redirect(c, "success", req.TranID)
}

func (h *PaymentHandler) fail(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}

	if _, err := h.uc.HandleCallback(c.Request().Context(), usecase.CallbackFail, req); err != nil {
		return writeError(c, err)
	}

	return h.redirect(c, "failed", req.TranID)
}

func (h *PaymentHandler) cancel(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}

	if _, err := h.uc.HandleCallback(c.Request().Context(), usecase.CallbackCancel, req); err != nil {
		return writeError(c, err)
	}

	return h.redirect(c, "cancelled", req.TranID)
}

// サーバー間通知。ゲートウェイには常にJSONで応える。
func (h *PaymentHandler) ipn(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}

	out, err := h.uc.HandleCallback(c.Request().Context(), usecase.CallbackIPN, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) bind(c echo.Context) (usecase.CallbackInput, error) {
	var req CallbackRequest
	if err := c.Bind(&req); err != nil {
		return usecase.CallbackInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	raw := ""
	if form, err := c.FormParams(); err == nil {
		raw = form.Encode()
	}

	return usecase.CallbackInput{
		TranID:     req.TranID,
		ValID:      req.ValID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Status:     req.Status,
		RawPayload: raw,
	}, nil
}

func (h *PaymentHandler) redirect(c echo.Context, result string, tranID string) error {
	url := fmt.Sprintf("%s/payment/%s?tran_id=%s", h.frontendURL, result, tranID)
	return c.Redirect(http.StatusSeeOther, url)
}
