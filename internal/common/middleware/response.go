package middleware

import (
	"net/http"
	"strconv"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details
type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// FlatErrorResponse is the error shape of the registration endpoint,
// which browser clients read as {error, field}
type FlatErrorResponse struct {
	Error     string `json:"error" example:"This email is already registered."`
	Code      string `json:"code" example:"DUPLICATE_FIELD"`
	Field     string `json:"field,omitempty" example:"email"`
	RequestID string `json:"request_id,omitempty"`
}

// SuccessResponse represents the standard success response format
type SuccessResponse struct {
	Data any `json:"data"`
}

// RespondSuccess sends a successful JSON response
func RespondSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, SuccessResponse{Data: data})
}

// RespondError sends an error JSON response
// Handles both *errors.AppError and generic errors
func RespondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	setRetryAfter(c, appErr)

	c.JSON(appErr.StatusCode, ErrorResponse{
		Error: ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: GetRequestID(c),
			Details:   appErr.Details,
		},
	})
}

// RespondFlatError sends err in the flat {error, code, field} shape
func RespondFlatError(c *gin.Context, err error) {
	appErr := toAppError(err)
	setRetryAfter(c, appErr)

	c.JSON(appErr.StatusCode, FlatErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Field:     appErr.Field(),
		RequestID: GetRequestID(c),
	})
}

func toAppError(err error) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	// Wrap unknown errors as internal error
	return errors.Internal("An unexpected error occurred")
}

func setRetryAfter(c *gin.Context, appErr *errors.AppError) {
	if d := appErr.RetryAfter(); d > 0 {
		c.Header("Retry-After", strconv.FormatInt(int64(d.Seconds()), 10))
	}
}

// RespondOK sends a 200 OK response
func RespondOK(c *gin.Context, data any) {
	RespondSuccess(c, http.StatusOK, data)
}

// NoMethod answers requests whose path exists under another method
func NoMethod(c *gin.Context) {
	RespondFlatError(c, errors.MethodNotAllowed())
}
