package shared

import (
	"errors"
	"fmt"
)

// DomainError carries a stable machine code alongside a human-readable
// message. All business rule failures surface as one of these.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for the three failure families plus refinements used by
// the purchasing module.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeInvariant       = "INVARIANT_VIOLATION"
	CodeNotFound        = "NOT_FOUND"
	CodeConcurrency     = "CONCURRENT_MODIFICATION"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeUnauthorized    = "UNAUTHORIZED"
)

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewInvalidQuantityError is a validation refinement for quantity rules.
func NewInvalidQuantityError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidQuantity, fmt.Sprintf(format, args...))
}

// NewInvariantViolation reports an operation that would break an
// aggregate invariant (illegal state transition, double commit, ...).
func NewInvariantViolation(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvariant, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a missing aggregate or child entity.
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// IsValidation reports whether err is a validation failure (including
// the INVALID_QUANTITY refinement).
func IsValidation(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == CodeValidation || de.Code == CodeInvalidQuantity
	}
	return false
}

// IsInvariantViolation reports whether err is an invariant violation.
func IsInvariantViolation(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == CodeInvariant
	}
	return false
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == CodeNotFound
	}
	return false
}
