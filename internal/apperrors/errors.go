// Package apperrors defines the error kinds the service distinguishes at its
// request boundary: bad input, missing records, broken reference data, and
// upstream scan-engine failures. Anything else is treated as an internal
// persistence or server fault.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a site, evaluator, or result that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a scan engine failure or timeout.
	ErrUpstream = errors.New("scan engine failure")
)

// ValidationError reports a bad or missing input field. Rejected before any
// persistence call is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidation builds a ValidationError for a named field.
func NewValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IntegrityError reports broken cross-references in the reference data, e.g.
// a question pointing at a guideline that does not exist.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string { return e.Msg }

// NewIntegrity builds an IntegrityError.
func NewIntegrity(format string, args ...any) error {
	return &IntegrityError{Msg: fmt.Sprintf(format, args...)}
}

// IsIntegrity reports whether err is (or wraps) an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
