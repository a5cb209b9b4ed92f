// Package oberrors provides standardized error types for pipeline stages.
// It defines a single Error struct used across all public APIs, with
// operation context, an error kind, and error wrapping support.
package oberrors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindIO indicates an unreadable or unwritable file.
	KindIO Kind = iota + 1
	// KindSchema indicates a missing or mistyped input column.
	KindSchema
	// KindEncoding indicates a category value absent from a fitted encoder.
	KindEncoding
	// KindMetric indicates a metric that is undefined for a class.
	KindMetric
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSchema:
		return "schema"
	case KindEncoding:
		return "encoding"
	case KindMetric:
		return "metric"
	default:
		return "unknown"
	}
}

// Error represents a standardized error across all pipeline operations.
type Error struct {
	Kind    Kind   // Failure classification
	Op      string // Operation name (e.g., "LoadCSV", "Transform")
	Column  string // Column or class name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s failed on %q: %s", e.Kind, e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && e.Op == t.Op && e.Column == t.Column
	}
	return false
}

// NewIO creates an error for unreadable or unwritable files.
func NewIO(op, path string, cause error) *Error {
	return &Error{
		Kind:    KindIO,
		Op:      op,
		Message: fmt.Sprintf("cannot access %q", path),
		Cause:   cause,
	}
}

// NewSchema creates an error for a missing or mistyped column.
func NewSchema(op, column, message string) *Error {
	return &Error{
		Kind:    KindSchema,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewEncoding creates an error for a category unseen by a fitted encoder.
func NewEncoding(op, column, value string) *Error {
	return &Error{
		Kind:    KindEncoding,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("category %q not present in fitted encoder", value),
	}
}

// NewMetric creates an error for a metric undefined on a class.
func NewMetric(op, class, message string) *Error {
	return &Error{
		Kind:    KindMetric,
		Op:      op,
		Column:  class,
		Message: message,
	}
}

// IsKind reports whether any error in the chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
