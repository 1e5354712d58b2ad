// Package domainerrors provides coded errors for the SPPG domain.
//
// Every failure the validation core can produce carries a Code so callers
// can branch on the kind of failure without string matching, and a Message
// that is literal and human-readable enough to surface to an operator
// unchanged. Construct with New at the point of detection; use Wrap only
// when crossing an infrastructure boundary (store, cache, broker).
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure.
type Code string

// Validation codes. Each maps to one checker in the enrollment
// validation pipeline.
const (
	CodeEligibility     Code = "eligibility"
	CodeDateRange       Code = "date_range"
	CodeConsistency     Code = "consistency"
	CodeBudgetTolerance Code = "budget_tolerance"
	CodeSchema          Code = "schema"
	CodeBounds          Code = "bounds"
)

// Ambient codes shared across the service.
const (
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is makes errors.Is match on code equality so sentinel-style comparisons
// work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a domain error with the given code and literal message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a domain code and message.
// The cause remains reachable via errors.Unwrap.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error
// with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal
// for non-domain errors so infrastructure failures never leak detail.
func CodeOf(err error) Code {
	var de *Error
	if !errors.As(err, &de) {
		return CodeInternal
	}
	return de.Code
}

// Is reports whether err matches target via the standard errors.Is chain.
// Provided so call sites importing this package don't also need stdlib errors.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
