// Package errors defines the coded errors shared by the layout engine,
// its repositories, the HTTP API and the CLI.
//
// Codes are grouped by what the caller can do about them:
//   - INVALID_*: the input is wrong; Field may name the offending field
//   - *NOT_FOUND: the layout or component does not exist
//   - LAYOUT_LOCKED, COLLISION, NO_DRAG_IN_PROGRESS: the layout state
//     does not allow the operation
//   - STORAGE_ERROR: a persistence backend failed
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidItem, "item %q has zero width", id)
//	if errors.Is(err, errors.ErrCodeInvalidItem) {
//	    // reject the edit
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, cause, "save layout for %s", userID)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidItem   Code = "INVALID_ITEM"
	ErrCodeInvalidEmail  Code = "INVALID_EMAIL"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeLayoutNotFound Code = "LAYOUT_NOT_FOUND"
	ErrCodeItemNotFound   Code = "ITEM_NOT_FOUND"

	// Layout state errors
	ErrCodeLayoutLocked Code = "LAYOUT_LOCKED"
	ErrCodeCollision    Code = "COLLISION"
	ErrCodeNoDrag       Code = "NO_DRAG_IN_PROGRESS"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Field names the offending input field for
// validation failures so that forms and API clients can point at it.
type Error struct {
	Code    Code
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// On records the input field the error is about and returns e.
func (e *Error) On(field string) *Error {
	e.Field = field
	return e
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as finds the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// GetField returns the input field of the outermost coded error, or "".
func GetField(err error) string {
	if e, ok := as(err); ok {
		return e.Field
	}
	return ""
}

// UserMessage returns the message without the code prefix, or the plain
// error text for uncoded errors.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}
