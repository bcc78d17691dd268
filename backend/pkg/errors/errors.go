package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents a lookup by id that found nothing
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents malformed input or a broken reference
	ErrorTypeValidation ErrorType = "validation_failed"
	// ErrorTypeConflict represents an edge that already exists or is already absent
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeSink represents failures delivering events to an external system
	ErrorTypeSink ErrorType = "sink"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's ErrorType
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Lookup Errors

// ErrNotFound is returned when a record with the given id does not exist
type ErrNotFound struct {
	*BaseError
	RecordKind string
	ID         string
}

func NewNotFound(kind, id string) *ErrNotFound {
	return &ErrNotFound{
		BaseError:  NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", kind, id), nil),
		RecordKind: kind,
		ID:         id,
	}
}

// Validation Errors

// ErrValidationFailed is returned when input does not satisfy a field rule
type ErrValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidationFailed(field, reason string) *ErrValidationFailed {
	return &ErrValidationFailed{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// NewMalformedID is returned when an id is not a UUID
func NewMalformedID(field, value string) *ErrValidationFailed {
	return NewValidationFailed(field, fmt.Sprintf("%q is not a valid uuid", value))
}

// ErrReferenceMissing is returned when a foreign key points at a record that does not exist
type ErrReferenceMissing struct {
	*BaseError
	Field      string
	RecordKind string
	ID         string
}

func NewReferenceMissing(field, kind, id string) *ErrReferenceMissing {
	return &ErrReferenceMissing{
		BaseError:  NewBaseError(ErrorTypeValidation, fmt.Sprintf("%s references missing %s: %s", field, kind, id), nil),
		Field:      field,
		RecordKind: kind,
		ID:         id,
	}
}

// ErrDuplicateProfile is returned when an account already owns a profile
type ErrDuplicateProfile struct {
	*BaseError
	AccountID string
}

func NewDuplicateProfile(accountID string) *ErrDuplicateProfile {
	return &ErrDuplicateProfile{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("account already has a profile: %s", accountID), nil),
		AccountID: accountID,
	}
}

// ErrSelfFollow is returned when an account tries to follow itself
type ErrSelfFollow struct {
	*BaseError
	AccountID string
}

func NewSelfFollow(accountID string) *ErrSelfFollow {
	return &ErrSelfFollow{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("account cannot follow itself: %s", accountID), nil),
		AccountID: accountID,
	}
}

// Conflict Errors

// ErrConflict is returned when an edge mutation would not change anything
type ErrConflict struct {
	*BaseError
	Reason string
}

func NewConflict(reason string) *ErrConflict {
	return &ErrConflict{
		BaseError: NewBaseError(ErrorTypeConflict, reason, nil),
		Reason:    reason,
	}
}

// Sink Errors

// ErrSinkFailed is returned when an event could not be delivered to a sink
type ErrSinkFailed struct {
	*BaseError
	Sink string
}

func NewSinkFailed(sink string, err error) *ErrSinkFailed {
	return &ErrSinkFailed{
		BaseError: NewBaseError(ErrorTypeSink, fmt.Sprintf("sink %s failed", sink), err),
		Sink:      sink,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type categorized interface {
	Category() ErrorType
}

// TypeOf returns the category of err, or "" when err carries none
func TypeOf(err error) ErrorType {
	var c categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsNotFound reports whether err is a lookup miss
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// IsConflict reports whether err is an edge conflict
func IsConflict(err error) bool {
	return IsErrorType(err, ErrorTypeConflict)
}

// IsRetryable checks if an error is retryable.
// Core operations are local and deterministic, only sink delivery is retried.
func IsRetryable(err error) bool {
	return IsErrorType(err, ErrorTypeSink)
}

// HTTPStatus maps an error onto the status the transport reports
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation, ErrorTypeConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
