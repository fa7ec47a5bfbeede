package errors

import (
	"fmt"
	"net/http"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, details ...string) *AppError {
	var detail string
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Details: detail,
	}
}

func NewValidationError(message string, details ...string) *AppError {
	return NewAppError(http.StatusBadRequest, message, details...)
}

func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func NewNotFoundErrorf(format string, args ...interface{}) *AppError {
	return NewAppError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewInternalError(message string, details ...string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, details...)
}

var (
	ErrCurrencyNotFound           = NewNotFoundError("Currency")
	ErrExchangeRateNotFound       = NewNotFoundError("Exchange rate")
	ErrProductRateNotFound        = NewNotFoundError("Product exchange rate")
	ErrProductNotFound            = NewNotFoundError("Product")
	ErrKingdomNotFound            = NewNotFoundError("Kingdom")
	ErrTransactionNotFound        = NewNotFoundError("Transaction")
	ErrPendingTransactionNotFound = NewNotFoundError("Pending transaction")
	ErrCurrencyAlreadyExists      = NewConflictError("Currency already exists")
	ErrRateAlreadyExists          = NewConflictError("An active rate already exists for this pair and date")
	ErrProductRateAlreadyExists   = NewConflictError("An active product rate already exists for this product, pair and date")
)
