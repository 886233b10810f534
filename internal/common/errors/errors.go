package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes
const (
	// 4xx Client Errors
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeVerificationFailed = "VERIFICATION_FAILED"
	CodeNonceMismatch      = "NONCE_MISMATCH"
	CodeDuplicateField     = "DUPLICATE_FIELD"
	CodeThrottled          = "THROTTLED"

	// 5xx Server Errors
	CodeInternal           = "INTERNAL_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodePersistFailed      = "PERSIST_FAILED"
)

// DetailField names the offending input of a DUPLICATE_FIELD error
const DetailField = "field"

// DetailRetryAfter is the recommended client cooldown in whole seconds
const DetailRetryAfter = "retry_after_seconds"

// AppError represents a structured application error
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithRetryAfter records the cooldown a client should wait before retrying
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[DetailRetryAfter] = secs
	return e
}

// RetryAfter returns the recorded cooldown, or zero
func (e *AppError) RetryAfter() time.Duration {
	if e.Details == nil {
		return 0
	}
	switch v := e.Details[DetailRetryAfter].(type) {
	case int64:
		return time.Duration(v) * time.Second
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v) * time.Second
	}
	return 0
}

// Field returns the offending field of a DUPLICATE_FIELD error
func (e *AppError) Field() string {
	if e.Details == nil {
		return ""
	}
	f, _ := e.Details[DetailField].(string)
	return f
}

// As extracts an *AppError from err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an *AppError with the given code
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// Error constructors

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func MethodNotAllowed() *AppError {
	return &AppError{
		Code:       CodeMethodNotAllowed,
		Message:    "Method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

func VerificationFailed(message string) *AppError {
	return &AppError{
		Code:       CodeVerificationFailed,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NonceMismatch() *AppError {
	return &AppError{
		Code:       CodeNonceMismatch,
		Message:    "Invalid or expired nonce. Please try again.",
		StatusCode: http.StatusForbidden,
	}
}

func DuplicateField(field string) *AppError {
	message := "This value is already registered."
	switch field {
	case "email":
		message = "This email is already registered."
	case "discord":
		message = "This Discord handle is already registered."
	}
	return &AppError{
		Code:       CodeDuplicateField,
		Message:    message,
		StatusCode: http.StatusConflict,
		Details:    map[string]any{DetailField: field},
	}
}

func Throttled(wait time.Duration) *AppError {
	e := &AppError{
		Code:       CodeThrottled,
		Message:    "Too many requests. Please wait before trying again.",
		StatusCode: http.StatusTooManyRequests,
	}
	return e.WithRetryAfter(wait)
}

func Internal(message string) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func StorageUnavailable(err error, retryAfter time.Duration) *AppError {
	e := &AppError{
		Code:       CodeStorageUnavailable,
		Message:    "Storage is temporarily unavailable",
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
	return e.WithRetryAfter(retryAfter)
}

func PersistFailed(err error, retryAfter time.Duration) *AppError {
	e := &AppError{
		Code:       CodePersistFailed,
		Message:    "Could not save to database.",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
	return e.WithRetryAfter(retryAfter)
}
