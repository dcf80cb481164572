// Package errors provides structured error types for sysdesign.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the widgets, the CLI and the API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - USAGE_*: A component was wired incorrectly (construction-time misuse)
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// Overlay state transitions never return errors. Only construction-time
// misuse does, for example creating a modal Backdrop without a Modal root.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUsage, "modal components must be used within a Modal")
//	if errors.Is(err, errors.ErrCodeUsage) {
//	    // Report the configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Usage errors
	ErrCodeUsage      Code = "USAGE_ERROR"
	ErrCodeNoTabbable Code = "USAGE_NO_TABBABLE"
	ErrCodeDetached   Code = "USAGE_DETACHED"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidQuery     Code = "INVALID_QUERY"
	ErrCodeInvalidPlacement Code = "INVALID_PLACEMENT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeArticleNotFound Code = "ARTICLE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
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

// Usage returns a usage error. Components call it when they are constructed
// outside the root they depend on.
func Usage(format string, args ...any) *Error {
	return New(ErrCodeUsage, format, args...)
}
