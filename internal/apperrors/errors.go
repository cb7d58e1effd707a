// Package apperrors provides typed error handling for the show picker.
// It uses struct-based errors with separate user-safe and internal messages.
package apperrors

import "fmt"

// Code categorizes errors for consistent handling across the application.
type Code int

// Error codes for categorizing application errors.
const (
	// CodeUnknown indicates an unspecified error type
	CodeUnknown Code = iota
	// CodeTransport indicates a network or HTTP failure reaching a remote service
	CodeTransport
	// CodeMalformedResponse indicates a fetched record is missing required fields
	CodeMalformedResponse
	// CodeNotFound indicates no episode or constructed URL resolves for a selection
	CodeNotFound
	// CodeEmptyCatalog indicates the shows-list endpoint returned zero titles
	CodeEmptyCatalog
	// CodeInvalidInput indicates malformed or invalid request input
	CodeInvalidInput
	// CodeSnapshot indicates a snapshot store read or write failure
	CodeSnapshot
)

// Error represents a domain error with separate user-safe and internal messages.
// The Message field is always safe to expose to clients.
// The Internal field contains debugging details and should only be logged.
type Error struct {
	Code     Code   // Error category for handler mapping
	Message  string // User-safe message (always exposable)
	Internal string // Internal details (for logging only)
	Err      error  // Wrapped underlying error
}

// Error implements the error interface.
// Returns the user-safe message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithInternal adds internal debugging details to the error.
func (e *Error) WithInternal(format string, args ...any) *Error {
	e.Internal = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeTransport:
		return "transport"
	case CodeMalformedResponse:
		return "malformed_response"
	case CodeNotFound:
		return "not_found"
	case CodeEmptyCatalog:
		return "empty_catalog"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("unknown_code_%d", c)
	}
}

// Is reports whether target matches this error's code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Transport creates a new transport error with the given message.
func Transport(message string) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: message,
	}
}

// MalformedResponse creates a new malformed response error with the given message.
func MalformedResponse(message string) *Error {
	return &Error{
		Code:    CodeMalformedResponse,
		Message: message,
	}
}

// NotFound creates a new not found error with the given message.
func NotFound(message string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: message,
	}
}

// EmptyCatalog creates a new empty catalog error with the given message.
func EmptyCatalog(message string) *Error {
	return &Error{
		Code:    CodeEmptyCatalog,
		Message: message,
	}
}

// InvalidInput creates a new invalid input error with the given message.
func InvalidInput(message string) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// Snapshot creates a new snapshot store error with the given message.
func Snapshot(message string) *Error {
	return &Error{
		Code:    CodeSnapshot,
		Message: message,
	}
}
