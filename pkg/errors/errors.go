// Package errors provides custom error types for the tablespec system.
// These errors enable programmatic error checking with errors.Is and errors.As
// and carry enough context (scope, option key, selector) to explain a failure.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers only need one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the tablespec system
var (
	// ErrInvalidInput indicates that an option layer failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates that a collaborator needed for an optional step is missing
	ErrUnavailable = errors.New("unavailable")

	// ErrUnsupported indicates a value of a type the receiver cannot handle
	ErrUnsupported = errors.New("unsupported")
)

// ValidationError represents a validation failure of a single option key.
type ValidationError struct {
	Scope   string // "global", "document" or "call"
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch {
	case e.Scope != "" && e.Field != "":
		return fmt.Sprintf("validation failed for %s option %s: %s", e.Scope, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(scope, field string, value any, message string) *ValidationError {
	return &ValidationError{Scope: scope, Field: field, Value: value, Message: message}
}

// MarkupError reports that markup extraction could not run or failed.
type MarkupError struct {
	Selector string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *MarkupError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Selector != "" {
		return fmt.Sprintf("markup extraction for %q: %s", e.Selector, msg)
	}
	return fmt.Sprintf("markup extraction: %s", msg)
}

// Unwrap implements errors.Unwrap
func (e *MarkupError) Unwrap() error {
	return e.Err
}

// NewMarkupError creates a new MarkupError
func NewMarkupError(selector, message string, err error) *MarkupError {
	return &MarkupError{Selector: selector, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "html"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable checks if an error reports a missing collaborator
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}
