package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Code identifies the error kind; callers dispatch on it, never on the message.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Transfer Engine (LDG) ----

func ErrSameAccount() *AppError {
	return New("LDG_001", "Unable to create payment for the same account", http.StatusBadRequest)
}

func ErrAccountNotFound() *AppError {
	return New("LDG_002", "Account not found", http.StatusNotFound)
}

func ErrInvalidValue() *AppError {
	return New("LDG_003", "Payment value must be greater than zero", http.StatusBadRequest)
}

func ErrCurrencyMismatch() *AppError {
	return New("LDG_004", "Account currency must be the same", http.StatusBadRequest)
}

func ErrInsufficientFunds(account string) *AppError {
	return New("LDG_005", fmt.Sprintf("Insufficient funds for account %s", account), http.StatusPaymentRequired)
}

func ErrValueOverflow(account string) *AppError {
	return New("LDG_006", fmt.Sprintf("Value overflow for account %s", account), http.StatusUnprocessableEntity)
}

func ErrPaymentNotFound() *AppError {
	return New("LDG_007", "Payment not found", http.StatusNotFound)
}

// ---- Registry (REG) ----

func ErrCurrencyExists(code string) *AppError {
	return New("REG_001", fmt.Sprintf("Currency %s already exists", code), http.StatusConflict)
}

func ErrAccountExists(name string) *AppError {
	return New("REG_002", fmt.Sprintf("Account %s already exists", name), http.StatusConflict)
}

func ErrCurrencyNotFound(code string) *AppError {
	return New("REG_003", fmt.Sprintf("Currency %s not found", code), http.StatusNotFound)
}

func ErrInvalidBalance() *AppError {
	return New("REG_004", "Opening balance out of range", http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a storage or infrastructure fault.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrLockTimeout reports that row-lock acquisition exceeded the configured
// deadline. Retryable by the caller.
func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// Validation returns a request-shape validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
