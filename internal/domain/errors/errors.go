// Package errors defines the application error taxonomy shared by the sync
// core and the delivery layer. Sync operations never panic and never leak raw
// transport errors: they classify failures into the kinds below so callers
// can tell "offline" from "fetch failed" from "not logged in".
package errors

import (
	"net/http"

	"marketpin/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code for the local facade
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// Is matches on the business error code, so a detail-enriched copy still
// compares equal to its sentinel under errors.Is.
func (e *BaseError) Is(target error) bool {
	var base *BaseError
	if !errors.As(target, &base) {
		return false
	}

	return e.errorCode == base.errorCode
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// ErrNetworkFailed covers remote fetch/write failures, timeouts and
	// non-success statuses. A reconciliation pass aborts its remaining steps
	// and leaves the local cache as-is.
	ErrNetworkFailed = NewBaseError(
		http.StatusBadGateway,
		"NETWORK_FAILED",
		"Could not reach the market directory",
		"",
	)

	// ErrDataShapeInvalid marks a remote payload that does not parse into the
	// expected record shape. Treated like a network failure: abort the sync,
	// apply nothing partial.
	ErrDataShapeInvalid = NewBaseError(
		http.StatusBadGateway,
		"DATA_SHAPE_INVALID",
		"Market directory returned unexpected data",
		"",
	)

	// ErrStoreFailed marks a local persistence failure. Fatal for the current
	// operation and never silently swallowed, since it indicates local
	// storage corruption.
	ErrStoreFailed = NewBaseError(
		http.StatusInternalServerError,
		"STORE_FAILED",
		"Local cache operation failed",
		"",
	)

	ErrNotLoggedIn = NewBaseError(
		http.StatusUnauthorized,
		"NOT_LOGGED_IN",
		"Please log in first",
		"",
	)

	ErrSessionExpired = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_EXPIRED",
		"Your session has expired, please log in again",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Submitted data failed validation",
		"",
	)

	ErrMarketNotFound = NewBaseError(
		http.StatusNotFound,
		"MARKET_NOT_FOUND",
		"Market not found",
		"",
	)

	ErrNotificationNotFound = NewBaseError(
		http.StatusNotFound,
		"NOTIFICATION_NOT_FOUND",
		"Notification not found",
		"",
	)

	ErrPhotoUploadFailed = NewBaseError(
		http.StatusBadGateway,
		"PHOTO_UPLOAD_FAILED",
		"Photo upload failed",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal error",
		"",
	)
)

// StoreExecuteError represents a local cache execution error, implementing
// the AppError interface while preserving the underlying cause.
type StoreExecuteError struct {
	err     error
	details string
}

// NewStoreExecuteError creates a cache-related error.
func NewStoreExecuteError(err error, details string) AppError {
	return &StoreExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface.
func (e *StoreExecuteError) Error() string {
	return errors.Wrap(e.err, "local cache execution failed").Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *StoreExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code.
func (e *StoreExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *StoreExecuteError) ErrorCode() string {
	return "STORE_FAILED"
}

// Message returns the user-friendly error message.
func (e *StoreExecuteError) Message() string {
	return "Local cache operation failed"
}

// Details returns detailed error information.
func (e *StoreExecuteError) Details() string {
	return e.details
}
