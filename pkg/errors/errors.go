// Package errors provides coded errors for schemeview.
//
// The render core never returns errors: a broken component degrades to
// missing output. Errors exist only at I/O boundaries, and each carries a
// [Code] naming what failed: a document, component props, the config, a
// telemetry source, the network.
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "component %d: missing type tag", id)
//	if errors.Is(err, errors.ErrCodeInvalidDocument) {
//	    // skip the component
//	}
//
// The CLI maps codes to process exit statuses with [ExitCode].
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	// Rejected input: flags, documents, props, config, channel data.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidProps    Code = "INVALID_PROPS"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidSource   Code = "INVALID_SOURCE"

	// Missing files and resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Redis, HTTP and websocket failures.
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Bugs and features this build lacks.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Exit statuses returned by [ExitCode].
const (
	ExitFailure  = 1 // uncoded or internal errors
	ExitUsage    = 2 // invalid input or config
	ExitDocument = 3 // the scheme document or its props
	ExitNotFound = 4 // a missing file or resource
	ExitSource   = 5 // telemetry source or network failures
)

// ExitCode returns the process exit status for err. A nil err is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if !errors.As(err, &e) {
		return ExitFailure
	}
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return ExitUsage
	case ErrCodeInvalidDocument, ErrCodeInvalidProps:
		return ExitDocument
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ExitNotFound
	case ErrCodeInvalidSource, ErrCodeNetwork:
		return ExitSource
	}
	return ExitFailure
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
