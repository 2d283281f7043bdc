// Package errors provides structured error handling for GridFlow.
// Errors carry a stable code for programmatic handling plus optional
// key/value context.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies an error class for programmatic handling.
type Code string

const (
	// Caller errors (1xx)
	CodeInvalidArgument Code = "E101"
	CodeUnsupportedMode Code = "E102"
	CodeUnknownFormat   Code = "E103"

	// Resource errors (2xx)
	CodeFileNotFound Code = "E201"
	CodeOpenFailed   Code = "E202"
	CodeURIFailed    Code = "E203"

	// Parse errors (3xx)
	CodeParseFailed   Code = "E301"
	CodeEncodingError Code = "E302"

	// System errors (4xx)
	CodeCanceled Code = "E401"

	// Unknown
	CodeUnknown Code = "E999"
)

// GridFlowError is the base error type for all GridFlow errors.
type GridFlowError struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *GridFlowError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *GridFlowError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target error by code.
func (e *GridFlowError) Is(target error) bool {
	if t, ok := target.(*GridFlowError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *GridFlowError) WithContext(key string, value interface{}) *GridFlowError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new GridFlowError.
func New(code Code, message string) *GridFlowError {
	return &GridFlowError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new GridFlowError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *GridFlowError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code Code, message string) *GridFlowError {
	if err == nil {
		return nil
	}

	return &GridFlowError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *GridFlowError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// --- Convenience constructors ---

// InvalidArgument creates a caller-error with the given message.
func InvalidArgument(message string) *GridFlowError {
	return New(CodeInvalidArgument, message)
}

// UnsupportedMode creates an error for a read mode the importer lacks.
func UnsupportedMode(mode string) *GridFlowError {
	return New(CodeUnsupportedMode, "importer does not support reading mode").
		WithContext("mode", mode)
}

// --- Error checking utilities ---

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	var gfErr *GridFlowError
	if errors.As(err, &gfErr) {
		return gfErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var gfErr *GridFlowError
	if errors.As(err, &gfErr) {
		return gfErr.Code
	}
	return CodeUnknown
}
