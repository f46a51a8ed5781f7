package usecase

import (
	"errors"
	"fmt"
)

// 機械可読のエラーコード
const (
	CodeNotFound           = "not_found"
	CodeInvalidQuantity    = "invalid_quantity"
	CodeDuplicateLine      = "duplicate_line"
	CodePreconditionFailed = "precondition_failed"
	CodeInvalidTransition  = "invalid_transition"
	CodeEmptyCart          = "empty_cart"
	CodeGatewayUnavailable = "gateway_unavailable"
	CodeValidationFailed   = "validation_failed"

	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal_error"
)

// リクエスト境界に返す構造化エラー。スタックトレースは出さない。
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
