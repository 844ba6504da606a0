package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired indicates a write operation was attempted
	// without a verified caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrStatementNotFound indicates the statement is absent or tombstoned.
	// A tombstoned statement is reported as not found on read paths so its
	// prior existence cannot be inferred.
	ErrStatementNotFound = errors.New("statement not found")
	// ErrPoliticianNotFound indicates the referenced subject does not exist.
	ErrPoliticianNotFound = errors.New("politician not found")
	// ErrNotOwner indicates the caller is not the statement's author.
	ErrNotOwner = errors.New("forbidden: not owner")
	// ErrGracePeriodExpired indicates the mutability window has elapsed.
	ErrGracePeriodExpired = errors.New("forbidden: grace period expired")
	// ErrStatementDeleted indicates a mutation was attempted on a tombstoned row.
	ErrStatementDeleted = errors.New("forbidden: statement deleted")
	// ErrAlreadyDeleted indicates a second delete on an already tombstoned row.
	// Deletion is deliberately not idempotent.
	ErrAlreadyDeleted = errors.New("forbidden: statement already deleted")
)

// ValidationError reports a single violated input constraint at field level.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a field-level validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err carries a field-level validation failure.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
