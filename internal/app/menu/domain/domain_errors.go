package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every menu component. Callers distinguish failures
// with errors.Is; concrete causes are wrapped with %w.
var (
	// ErrNotFound indicates a record does not exist in the backing store.
	ErrNotFound = errors.New("not found")

	// ErrTenantNotFound indicates no provisioned tenant owns the given public code.
	// It is terminal: the visitor sees "menu not found" and nothing is retried.
	ErrTenantNotFound = fmt.Errorf("tenant %w", ErrNotFound)

	// ErrPersistence indicates a network or database failure while talking to the store.
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation indicates input rejected before any I/O.
	ErrValidation = errors.New("validation failure")

	// ErrMalformedState indicates corrupt locally persisted state. It is logged and
	// replaced with the empty default, never returned to callers.
	ErrMalformedState = errors.New("malformed local state")

	// ErrNoTenant indicates an operator operation ran before a tenant was loaded.
	ErrNoTenant = errors.New("no tenant loaded")
)

// Validation errors. Each wraps ErrValidation.
var (
	ErrEmptyProductName   = fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	ErrProductNameTooLong = fmt.Errorf("%w: product name exceeds maximum length of 255 characters", ErrValidation)
	ErrNegativePrice      = fmt.Errorf("%w: price cannot be negative", ErrValidation)
	ErrZeroPrice          = fmt.Errorf("%w: price cannot be zero", ErrValidation)
	ErrInvalidSaleUnit    = fmt.Errorf("%w: unknown sale unit", ErrValidation)
	ErrEmptyProductID     = fmt.Errorf("%w: product id is required", ErrValidation)
	ErrEmptyOptionName    = fmt.Errorf("%w: option name cannot be empty", ErrValidation)
	ErrDuplicateOption    = fmt.Errorf("%w: option already exists", ErrValidation)
	ErrInvalidOptionKind  = fmt.Errorf("%w: unknown customization option kind", ErrValidation)
	ErrInvalidTenantCode  = fmt.Errorf("%w: tenant code must be 5 lowercase alphanumeric characters", ErrValidation)
	ErrEmptyIdentity      = fmt.Errorf("%w: tenant identity is required", ErrValidation)
	ErrInvalidClockTime   = fmt.Errorf("%w: time must be formatted as HH:MM", ErrValidation)
)

// ErrTenantCodeExhausted indicates every candidate code collided with another tenant.
var ErrTenantCodeExhausted = errors.New("could not allocate a unique tenant code")

// ErrTenantCodeConflict indicates a write tried to give a second tenant a code
// that is already taken.
var ErrTenantCodeConflict = errors.New("tenant code already assigned")

// PersistenceError wraps a storage failure of op so that callers can match both
// ErrPersistence and the underlying cause.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
