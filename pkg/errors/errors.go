// Package errors provides structured error types for PathLinker.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP endpoint
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The engine surfaces three kinds of failure:
//   - INVALID_INPUT: sources/targets missing, weights missing or out of range
//   - PATH_NOT_FOUND: no path connects any source to any target
//   - NEGATIVE_WEIGHT: a transformed edge weight is negative
//
// The remaining codes are used by the surrounding plumbing (cache, server).
// Running out of candidate paths, cancellation and timeouts are not errors;
// they are reported through the result status.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "source %q not in network", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "decode cached result")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodePathNotFound   Code = "PATH_NOT_FOUND"
	ErrCodeNegativeWeight Code = "NEGATIVE_WEIGHT"

	// Plumbing errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Sentinel values for use with the standard library's errors.Is.
// Any *Error with the same code matches, regardless of message or cause.
var (
	ErrInvalidInput   = &Error{Code: ErrCodeInvalidInput, Message: "invalid input"}
	ErrPathNotFound   = &Error{Code: ErrCodePathNotFound, Message: "no path found"}
	ErrNegativeWeight = &Error{Code: ErrCodeNegativeWeight, Message: "negative edge weight"}
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

// Is matches another *Error by code, so errors.Is(err, ErrPathNotFound)
// holds for every PATH_NOT_FOUND error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
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

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
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

// Detail returns the full text of err with the code prefix of the first coded
// error in its chain removed, keeping the context added by wrapping.
//
//	build: edge S->T (input 0): probability must be in (0,1], got 1.5
func Detail(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	return strings.Replace(err.Error(), string(e.Code)+": ", "", 1)
}
