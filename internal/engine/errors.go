package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during query execution.
//
// Runtime errors include:
//   - Quota exceeded: Query produced more solutions than allowed
//   - Unsupported query: Query form the engine cannot evaluate
//   - Closed execution: Execution used after Close
//
// Errors raised while evaluating a FILTER expression are not runtime
// errors; they make the filter false for that solution.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeQuotaExceeded indicates the query exceeded max solutions.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeUnsupportedQuery indicates a query form the engine does not evaluate.
	ErrCodeUnsupportedQuery RuntimeErrorCode = "UNSUPPORTED_QUERY"

	// ErrCodeClosed indicates the execution was already closed.
	ErrCodeClosed RuntimeErrorCode = "EXECUTION_CLOSED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsQuotaError returns true if the error is a quota exceeded error.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(solutions, maxSolutions int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("query exceeded max solutions (%d > %d)", solutions, maxSolutions),
		Details: map[string]string{
			"solutions":     fmt.Sprintf("%d", solutions),
			"max_solutions": fmt.Sprintf("%d", maxSolutions),
		},
	}
}

func newUnsupportedError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnsupportedQuery,
		Message: fmt.Sprintf(format, args...),
	}
}

var errClosed = &RuntimeError{Code: ErrCodeClosed, Message: "execution is closed"}

// exprError is the error value of a FILTER expression: unbound variable,
// type mismatch, or invalid argument. It never escapes the package.
type exprError struct {
	msg string
}

func (e *exprError) Error() string { return e.msg }

func typeErrorf(format string, args ...any) error {
	return &exprError{msg: fmt.Sprintf(format, args...)}
}
