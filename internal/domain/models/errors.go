package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores, the services and the HTTP layer.
// Use errors.Is against these; the structured errors below unwrap to them.
var (
	// ErrValidation marks input that was rejected before any state changed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an entity that is absent or not owned by the tenant.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when an adjustment would leave a negative quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict marks a duplicate registration of a unique key.
	ErrConflict = errors.New("conflict")

	// ErrMissingTenant is returned by every operation called without a client id.
	ErrMissingTenant = fmt.Errorf("%w: client id is required", ErrValidation)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is shorthand for building a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError identifies the missing entity.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InsufficientStockError reports the shortfall of a rejected debit.
type InsufficientStockError struct {
	ClientID  string
	ItemType  ItemType
	Available float64
	Requested float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %v, requested %v",
		e.ItemType, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ConflictError identifies the duplicated key.
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsClientError reports whether err was caused by the caller's input or the
// current state of their data rather than an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConflict)
}

// IsNotFound reports whether err marks a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
