package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy shared by all services. Handlers map these onto HTTP
// status codes; anything not in the taxonomy is treated as an internal
// error and never shown to the user verbatim.
var (
	ErrAuthRequired        = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidIdentifier   = errors.New("invalid identifier format")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
)

// ValidationError reports an invalid or missing input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// parseID validates that s has the UUIDv4 shape used for every entity
// identifier. The check runs before any database work so malformed input
// is rejected cheaply.
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	if id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return id, nil
}
