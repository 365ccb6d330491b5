// Package errors provides structured error types for fragorder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending fragments
//
// # Error Codes
//
// Ordering failures carry one of the ordering codes. They are always fatal:
// the module's fragment order cannot be computed and no partial result is
// returned.
//
//   - DUPLICATE_FRAGMENT_NAME: two archives declare the same fragment name
//   - DUPLICATE_ORDERING_REFERENCE: a before/after list repeats a name
//   - AMBIGUOUS_DUPLICATE_DECLARATION: two ordering nodes share a name
//   - OTHERS_CLASSIFICATION_CONFLICT: a fragment is both before and after others
//   - ORDERING_CYCLE: the before/after constraints form a cycle
//
// The remaining codes cover input handling (INVALID_*), lookups (NOT_FOUND)
// and unexpected failures (INTERNAL_ERROR).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateFragmentName, "fragment name %q is used twice", name)
//	if errors.Is(err, errors.ErrCodeDuplicateFragmentName) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "decode %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Ordering errors
	ErrCodeDuplicateFragmentName         Code = "DUPLICATE_FRAGMENT_NAME"
	ErrCodeDuplicateOrderingReference    Code = "DUPLICATE_ORDERING_REFERENCE"
	ErrCodeAmbiguousDuplicateDeclaration Code = "AMBIGUOUS_DUPLICATE_DECLARATION"
	ErrCodeOthersClassificationConflict  Code = "OTHERS_CLASSIFICATION_CONFLICT"
	ErrCodeOrderingCycle                 Code = "ORDERING_CYCLE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsOrdering reports whether err carries one of the ordering error codes.
// Ordering errors describe contradictory input rather than a failure of the
// tool, so the CLI and the API report them differently.
func IsOrdering(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateFragmentName,
		ErrCodeDuplicateOrderingReference,
		ErrCodeAmbiguousDuplicateDeclaration,
		ErrCodeOthersClassificationConflict,
		ErrCodeOrderingCycle:
		return true
	}
	return false
}
