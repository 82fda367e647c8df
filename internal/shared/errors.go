package shared

import (
	"errors"
	"fmt"
)

// Error kinds shared by every domain package. Handlers map them to HTTP statuses.
var (
	// ErrValidation indicates malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the actor may not touch the resource.
	ErrForbidden = errors.New("access denied")
	// ErrDuplicate indicates a unique constraint was hit.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	// ErrInsufficientStock is returned when a product cannot cover a requested quantity.
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", ErrValidation)
	// ErrDiscountExceedsTotal is returned when a bill discount is larger than the bill amount.
	ErrDiscountExceedsTotal = fmt.Errorf("discount exceeds total: %w", ErrValidation)
	// ErrProductNotFound is returned when a bill references an unknown product.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

// Error is a domain error carrying a message safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// Required reports a missing mandatory field, e.g. "Company is required!".
func Required(field string) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf("%s is required!", field)}
}

// PublicMessage returns the client-facing message embedded in err, if any.
func PublicMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message, true
	}
	return "", false
}
