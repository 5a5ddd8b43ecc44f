package dto

import (
	"net/http"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Transport-level error codes. Domain error codes pass through to the
// wire unchanged; these cover failures that never reach the domain.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeForbidden:   http.StatusForbidden,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Domain errors
	shared.CodeValidation:      http.StatusBadRequest,
	shared.CodeInvalidQuantity: http.StatusBadRequest,
	shared.CodeInvariant:       http.StatusUnprocessableEntity,
	shared.CodeNotFound:        http.StatusNotFound,
	shared.CodeConcurrency:     http.StatusConflict,
	shared.CodeAlreadyExists:   http.StatusConflict,
	shared.CodeUnauthorized:    http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
