// Package errors provides the structured error type used across starter.
// Errors carry a Code that classifies the failure, an optional operation
// name and an optional cause, and match each other with errors.Is() by code.
package errors

import (
	"errors"
	"fmt"
)

// Code represents error categories for classifying different types of failures.
type Code int

const (
	// Unknown indicates an unclassified error.
	Unknown Code = iota
	// Configuration indicates an application configuration error.
	Configuration
	// Validation indicates a validation failure.
	Validation
	// ConfigNotFound indicates the log-level file (or its parent) does not exist.
	ConfigNotFound
	// InvalidLevelName indicates a level name that maps to no known severity.
	InvalidLevelName
	// DuplicateLoggerName indicates a logger name was configured twice.
	DuplicateLoggerName
	// CapturedApplicationError marks an error routed through the error ledger.
	CapturedApplicationError
	// Usage indicates invalid command-line input.
	Usage
	// AlreadyExists indicates a resource already exists.
	AlreadyExists
	// Cancelled indicates the user aborted an interactive prompt.
	Cancelled
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case Configuration:
		return "Configuration"
	case Validation:
		return "Validation"
	case ConfigNotFound:
		return "ConfigNotFound"
	case InvalidLevelName:
		return "InvalidLevelName"
	case DuplicateLoggerName:
		return "DuplicateLoggerName"
	case CapturedApplicationError:
		return "CapturedApplicationError"
	case Usage:
		return "Usage"
	case AlreadyExists:
		return "AlreadyExists"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Code(%d)", c)
	}
}

// Error represents a structured application error with code, message,
// operation context, and optional cause for error chaining.
type Error struct {
	Code    Code   // Error category
	Message string // Human-readable error message
	Op      string // Operation that failed (e.g., "logconf.Read")
	Cause   error  // Underlying error, if any
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with additional context.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithOp adds operation context to the error and returns the modified error.
// This allows for fluent chaining: errors.New(...).WithOp("operation").
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Error implements the error interface.
// The format varies based on whether Op and Cause are set:
//   - With Op and Cause: "op: message: cause"
//   - With Op only: "op: message"
//   - With Cause only: "message: cause"
//   - Message only: "message"
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's code.
// This enables errors.Is() to match errors by their code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// GetCode extracts the error code from an error.
// Returns Unknown if the error is not an *Error type.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// Sentinel errors for errors.Is() checks. Do not call WithOp on these;
// build a fresh error with New or Wrap instead.
var (
	// ErrConfigNotFound matches any ConfigNotFound error.
	ErrConfigNotFound = New(ConfigNotFound, "log level file not found")
	// ErrInvalidLevelName matches any InvalidLevelName error.
	ErrInvalidLevelName = New(InvalidLevelName, "invalid log level")
	// ErrDuplicateLoggerName matches any DuplicateLoggerName error.
	ErrDuplicateLoggerName = New(DuplicateLoggerName, "logger already configured")
	// ErrCaptured matches any error raised through the error ledger.
	ErrCaptured = New(CapturedApplicationError, "captured application error")
)
