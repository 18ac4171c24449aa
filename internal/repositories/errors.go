package repositories

import (
	"errors"
	"fmt"
)

// ErrorKind categorises persistence failures.
type ErrorKind string

const (
	// KindUnknown represents an unspecified failure.
	KindUnknown ErrorKind = "unknown"
	// KindNotFound indicates the requested document does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindConflict indicates a uniqueness or concurrency violation.
	KindConflict ErrorKind = "conflict"
	// KindUnavailable indicates the datastore could not be reached in time.
	KindUnavailable ErrorKind = "unavailable"
)

// StorageError is the concrete RepositoryError produced by the MongoDB layer.
type StorageError struct {
	Op      string
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound implements RepositoryError.
func (e *StorageError) IsNotFound() bool { return e != nil && e.Kind == KindNotFound }

// IsConflict implements RepositoryError.
func (e *StorageError) IsConflict() bool { return e != nil && e.Kind == KindConflict }

// IsUnavailable implements RepositoryError.
func (e *StorageError) IsUnavailable() bool { return e != nil && e.Kind == KindUnavailable }

// NewStorageError constructs a typed storage error.
func NewStorageError(op string, kind ErrorKind, message string, err error) *StorageError {
	if message == "" {
		message = string(kind)
	}
	return &StorageError{Op: op, Kind: kind, Message: message, Err: err}
}

// NotFoundError builds a not-found StorageError.
func NotFoundError(op string, message string) *StorageError {
	return NewStorageError(op, KindNotFound, message, nil)
}

// IsNotFound reports whether err categorises as a missing document.
func IsNotFound(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsNotFound()
}

// IsConflict reports whether err categorises as a uniqueness violation.
func IsConflict(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsConflict()
}

// IsUnavailable reports whether err categorises as a datastore outage.
func IsUnavailable(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsUnavailable()
}

// CounterErrorCode enumerates failure reasons for counter operations.
type CounterErrorCode string

const (
	// CounterErrorUnknown represents an unspecified failure.
	CounterErrorUnknown CounterErrorCode = "counter_unknown"
	// CounterErrorInvalidInput indicates the caller supplied invalid arguments.
	CounterErrorInvalidInput CounterErrorCode = "counter_invalid_input"
	// CounterErrorExhausted indicates the counter reached its configured maximum.
	CounterErrorExhausted CounterErrorCode = "counter_exhausted"
)

// CounterError wraps counter-specific failures with machine readable codes.
type CounterError struct {
	Op      string
	Code    CounterErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CounterError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *CounterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewCounterError constructs a typed counter error.
func NewCounterError(code CounterErrorCode, message string, err error) *CounterError {
	if message == "" {
		message = string(code)
	}
	return &CounterError{Code: code, Message: message, Err: err}
}
