// Package errs defines the error kinds surfaced at the façade boundary.
package errs

import "fmt"

// ValidationError reports a shape or invariant failure detected by Checks,
// or a malformed literal input (non-finite coordinate, non-positive edge
// length, mismatched array lengths).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UsageError reports a façade call made out of sequence or with an
// unrecognised argument, e.g. computing land-uses before assignment, or
// naming an unknown metric.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return "usage: " + e.Msg }

// NewUsageError builds a UsageError with a formatted message.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// MissingAttributeError reports that an external graph or data file lacks
// a required attribute (e.g. a node's x, y, live or weight column, or an
// edge's start, end, length or impedance column).
type MissingAttributeError struct {
	Attr string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing attribute: %s", e.Attr)
}

// NewMissingAttributeError builds a MissingAttributeError for attr.
func NewMissingAttributeError(attr string) *MissingAttributeError {
	return &MissingAttributeError{Attr: attr}
}
