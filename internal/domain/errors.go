package domain

import (
	"errors"
	"fmt"
)

// ValidationKind classifies why an input was rejected
type ValidationKind int

const (
	KindNone ValidationKind = iota
	InvalidPrice
	InvalidSegment
	InvalidCount
)

// String returns the string representation of ValidationKind
func (k ValidationKind) String() string {
	switch k {
	case InvalidPrice:
		return "INVALID_PRICE"
	case InvalidSegment:
		return "INVALID_SEGMENT"
	case InvalidCount:
		return "INVALID_COUNT"
	default:
		return "NONE"
	}
}

var (
	// ErrInvalidPrice is returned when a close or target price is not a positive number.
	ErrInvalidPrice = errors.New("price must be a positive number")

	// ErrInvalidSegment is returned when the segment key is not in the limit table.
	ErrInvalidSegment = errors.New("unknown market segment")

	// ErrInvalidCount is returned when a limit-up count is negative.
	ErrInvalidCount = errors.New("limit-up count must be a non-negative integer")

	// ErrOutOfRange is returned when a request exceeds a configured bound.
	ErrOutOfRange = errors.New("value out of configured range")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)

// ValidationError describes a rejected calculator input.
// It matches the kind's sentinel via errors.Is.
type ValidationError struct {
	Kind  ValidationKind
	Field string // "previous_close", "target_price", "segment", "count"
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.sentinel().Error(), e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case InvalidPrice:
		return ErrInvalidPrice
	case InvalidSegment:
		return ErrInvalidSegment
	case InvalidCount:
		return ErrInvalidCount
	default:
		return errors.New("invalid input")
	}
}

// NewValidationError creates a ValidationError
func NewValidationError(kind ValidationKind, field, value string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value}
}

// KindOf extracts the ValidationKind from err, or KindNone.
func KindOf(err error) ValidationKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindNone
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
