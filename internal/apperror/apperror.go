// Package apperror defines the typed failures every layer returns.
//
// Three kinds of failure exist, one sentinel each:
//
//	ErrValidation   bad input (mood out of range, future timestamp, ...)
//	ErrNotFound     the target id does not exist
//	ErrPersistence  the underlying store failed to read or write
//
// Callers check the kind with errors.Is, and pull out the message with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying driver/IO error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so
// errors.Is(err, ErrPersistence) and errors.Is(err, sql.ErrConnDone)
// can both match the same error.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Persistence wraps a storage failure. op names what was being attempted,
// e.g. "creating mood record".
func Persistence(op string, cause error) *AppError {
	msg := fmt.Sprintf("storage failure while %s", op)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &AppError{
		Err:     ErrPersistence,
		Message: msg,
		Cause:   cause,
	}
}
