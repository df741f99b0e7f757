package graph

import (
	"errors"
	"fmt"
)

// ErrNoNativeModel is returned by Store.Native for variants that cannot
// expose a native graph model.
var ErrNoNativeModel = errors.New("store does not expose a native graph model")

// ErrReaderClosed is returned when a Reader is used after Close.
var ErrReaderClosed = errors.New("reader is closed")

// Error is the descriptive error type of rdfkit operations.
//
// The original diagnostic (parser message, transport failure, driver error)
// is preserved as the wrapped Err.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes rdfkit errors.
type ErrorCode string

const (
	// ErrCodeMalformedInput indicates content that does not parse under
	// the declared format.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// ErrCodeUnsupportedFormat indicates a format name outside the
	// supported set.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeBackendMismatch indicates an operation that needs a native
	// model was given a store without one. This is caller misuse and is
	// never retried.
	ErrCodeBackendMismatch ErrorCode = "BACKEND_MISMATCH"

	// ErrCodeNetwork indicates an unreachable or unresolvable host.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// ErrCodeSerialization indicates an I/O failure while rendering text.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"

	// ErrCodeIO indicates a storage or transport failure that is neither
	// of the above.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeMalformedQuery indicates query text that does not parse.
	ErrCodeMalformedQuery ErrorCode = "MALFORMED_QUERY"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given code, message and cause.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsMalformedInput returns true if err is a MALFORMED_INPUT error.
func IsMalformedInput(err error) bool { return CodeOf(err) == ErrCodeMalformedInput }

// IsUnsupportedFormat returns true if err is an UNSUPPORTED_FORMAT error.
func IsUnsupportedFormat(err error) bool { return CodeOf(err) == ErrCodeUnsupportedFormat }

// IsBackendMismatch returns true if err is a BACKEND_MISMATCH error.
func IsBackendMismatch(err error) bool { return CodeOf(err) == ErrCodeBackendMismatch }

// IsNetworkError returns true if err is a NETWORK_ERROR error.
func IsNetworkError(err error) bool { return CodeOf(err) == ErrCodeNetwork }

// IsSerializationError returns true if err is a SERIALIZATION_ERROR error.
func IsSerializationError(err error) bool { return CodeOf(err) == ErrCodeSerialization }
