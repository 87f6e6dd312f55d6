// Package errors provides structured error handling for tablefactory.
//
// Every failure raised while resolving factories, validating options or
// provisioning sources is an *Error carrying an ErrorType. Callers branch on
// the type with IsType and read structured context (offending key, raw value,
// expected type, identifier) from Details.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents malformed configuration or registration input
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeLifecycle represents an operation invoked out of order
	ErrorTypeLifecycle ErrorType = "lifecycle"
	// ErrorTypeDuplicateOption is raised when an option key is declared twice for one factory
	ErrorTypeDuplicateOption ErrorType = "duplicate_option"
	// ErrorTypeDuplicateIdentifier is raised when a factory identifier is registered twice
	ErrorTypeDuplicateIdentifier ErrorType = "duplicate_identifier"
	// ErrorTypeMissingRequiredOption is raised when a required option is not supplied
	ErrorTypeMissingRequiredOption ErrorType = "missing_required_option"
	// ErrorTypeUnknownOption is raised when a supplied option is not declared
	ErrorTypeUnknownOption ErrorType = "unknown_option"
	// ErrorTypeInvalidOptionValue is raised when a raw option value does not parse
	ErrorTypeInvalidOptionValue ErrorType = "invalid_option_value"
	// ErrorTypeNoSuchFactory is raised when no factory matches an identifier
	ErrorTypeNoSuchFactory ErrorType = "no_such_factory"
	// ErrorTypeUnsupportedRuntimeMode is raised when a source cannot serve the requested execution mode
	ErrorTypeUnsupportedRuntimeMode ErrorType = "unsupported_runtime_mode"
)

// Common detail keys
const (
	DetailKey          = "key"
	DetailValue        = "value"
	DetailExpectedType = "expected_type"
	DetailIdentifier   = "identifier"
	DetailAvailable    = "available"
	DetailObject       = "object"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a format string.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Annotate wraps err keeping its ErrorType. Non-structured errors become internal.
func Annotate(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, TypeOf(err), message)
}

// IsType reports whether any structured error in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Type == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// TypeOf returns the type of the outermost structured error, or ErrorTypeInternal.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// Detail looks a detail up along err's chain, outermost first.
func Detail(err error, key string) (interface{}, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if v, found := e.Details[key]; found {
				return v, true
			}
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}

// DuplicateOption reports an option key declared twice for one factory.
func DuplicateOption(key string) *Error {
	return Newf(ErrorTypeDuplicateOption, "option '%s' is already declared", key).
		WithDetail(DetailKey, key)
}

// DuplicateIdentifier reports a factory identifier registered twice.
func DuplicateIdentifier(identifier string) *Error {
	return Newf(ErrorTypeDuplicateIdentifier, "factory '%s' is already registered", identifier).
		WithDetail(DetailIdentifier, identifier)
}

// MissingRequiredOption reports a required option that was not supplied.
func MissingRequiredOption(key string) *Error {
	return Newf(ErrorTypeMissingRequiredOption, "missing required option '%s'", key).
		WithDetail(DetailKey, key)
}

// UnknownOption reports a supplied option that the factory does not declare.
func UnknownOption(key string, supported []string) *Error {
	return Newf(ErrorTypeUnknownOption, "unsupported option '%s', supported options are [%s]",
		key, strings.Join(supported, ", ")).
		WithDetail(DetailKey, key).
		WithDetail(DetailAvailable, supported)
}

// InvalidOptionValue reports a raw value that cannot be parsed as the declared type.
func InvalidOptionValue(key, raw, expectedType string, cause error) *Error {
	e := Newf(ErrorTypeInvalidOptionValue, "invalid value '%s' for option '%s', expected %s", raw, key, expectedType).
		WithDetail(DetailKey, key).
		WithDetail(DetailValue, raw).
		WithDetail(DetailExpectedType, expectedType)
	e.Cause = cause
	return e
}

// NoSuchFactory reports an identifier with no matching factory.
func NoSuchFactory(identifier, capability string, available []string) *Error {
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return Newf(ErrorTypeNoSuchFactory, "could not find any %s factory for identifier '%s', available identifiers are [%s]",
		capability, identifier, strings.Join(sorted, ", ")).
		WithDetail(DetailIdentifier, identifier).
		WithDetail(DetailAvailable, sorted)
}

// UnsupportedRuntimeMode reports a source that cannot run in the requested mode.
func UnsupportedRuntimeMode(identifier, mode, reason string) *Error {
	return Newf(ErrorTypeUnsupportedRuntimeMode, "source '%s' does not support %s execution: %s", identifier, mode, reason).
		WithDetail(DetailIdentifier, identifier).
		WithDetail("mode", mode)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
