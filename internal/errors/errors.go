// Package errors provides the rich error type used across the codebase.
// Errors carry a user-facing hint, optional reportable details, and are marked
// with a sentinel so callers can branch on the class of failure with the Is*
// helpers. Import as ierr by convention.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the concrete error produced by this package.
type InternalError struct {
	cause             error
	hint              string
	reportableDetails map[string]interface{}
}

func (e *InternalError) Error() string {
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user-facing hint, safe to surface outside the process.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns structured details safe for API responses.
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// NewError starts building an error from a message.
func NewError(message string) *InternalError {
	return &InternalError{cause: errors.New(message)}
}

// NewErrorf starts building an error from a formatted message.
func NewErrorf(format string, args ...interface{}) *InternalError {
	return &InternalError{cause: errors.Newf(format, args...)}
}

// WithError starts building an error wrapping an existing one.
func WithError(err error) *InternalError {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &InternalError{cause: err}
}

// WithHint attaches a user-facing hint.
func (e *InternalError) WithHint(hint string) *InternalError {
	e.hint = hint
	return e
}

// WithHintf attaches a formatted user-facing hint.
func (e *InternalError) WithHintf(format string, args ...interface{}) *InternalError {
	e.hint = fmt.Sprintf(format, args...)
	return e
}

// WithReportableDetails attaches structured details safe for API responses.
func (e *InternalError) WithReportableDetails(details map[string]interface{}) *InternalError {
	e.reportableDetails = details
	return e
}

// Mark classifies the error with a sentinel and finalizes the build.
func (e *InternalError) Mark(mark error) error {
	e.cause = errors.Mark(e.cause, mark)
	return e
}
