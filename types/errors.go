package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeyNotFound is returned by blob stores when the requested key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// ErrUnsupportedTransition is returned when an operation would require a status
// transition the state machine does not define, such as toggling an archived item.
var ErrUnsupportedTransition = errors.New("unsupported status transition")

// ValidationError reports every rule a create or update violated.
// Violations are accumulated, never short-circuited.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// NotFoundError indicates an operation referenced an unknown item id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo with ID '%s' not found", e.ID)
}

// StorageError wraps a failed durable-store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvalidDataError indicates a malformed import payload shape.
type InvalidDataError struct {
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid import data: %s", e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidData reports whether err is (or wraps) an InvalidDataError.
func IsInvalidData(err error) bool {
	var id *InvalidDataError
	return errors.As(err, &id)
}
