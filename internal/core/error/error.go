package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier surfaced to callers.
type Code string

const (
	CodeEmptyCart        Code = "EMPTY_CART"
	CodeMissingFields    Code = "MISSING_FIELDS"
	CodeOrderFailed      Code = "ORDER_FAILED"
	CodeNetworkError     Code = "NETWORK_ERROR"
	CodeSubmitInProgress Code = "SUBMIT_IN_PROGRESS"
	CodeInvalidProduct   Code = "INVALID_PRODUCT"
	CodeRedis            Code = "REDIS_ERROR"
	CodeInternal         Code = "INTERNAL"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a key is absent.
	RedisNotFoundMessage = "redis key not found"

	EmptyCartMessage        = "your cart is empty"
	MissingFieldsMessage    = "please fill in all required fields"
	OrderFailedMessage      = "failed to place order"
	NetworkErrorMessage     = "network error, please try again"
	SubmitInProgressMessage = "an order is already being submitted"
)

// AppError wraps an underlying error with a code, an HTTP-ish status and a safe message.
type AppError struct {
	Err     error
	Status  int
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without an underlying cause.
func New(code Code, status int, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError around err.
func Wrap(err error, code Code, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Is matches another AppError by code, otherwise defers to the wrapped error.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) && t != nil {
		return t.Code == e.Code
	}
	return errors.Is(e.Err, target)
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message carried by err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrEmptyCart        = New(CodeEmptyCart, http.StatusBadRequest, EmptyCartMessage)
	ErrMissingFields    = New(CodeMissingFields, http.StatusBadRequest, MissingFieldsMessage)
	ErrOrderFailed      = New(CodeOrderFailed, http.StatusBadGateway, OrderFailedMessage)
	ErrNetwork          = New(CodeNetworkError, http.StatusServiceUnavailable, NetworkErrorMessage)
	ErrSubmitInProgress = New(CodeSubmitInProgress, http.StatusConflict, SubmitInProgressMessage)
)

// OrderFailed builds an ORDER_FAILED error, preferring the server message when present.
func OrderFailed(status int, serverMessage string, cause error) *AppError {
	msg := serverMessage
	if msg == "" {
		msg = OrderFailedMessage
	}
	return Wrap(cause, CodeOrderFailed, status, msg)
}

// Network builds a NETWORK_ERROR for a request that never got a response.
func Network(cause error) *AppError {
	return Wrap(cause, CodeNetworkError, http.StatusServiceUnavailable, NetworkErrorMessage)
}
