package hls

import (
	"errors"
	"fmt"
)

// Error represents a mismatch between the model IR and what the backend can
// express. These errors are deterministic: retrying never helps, and callers
// decide whether to abort the whole generation run.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Subject names the offending value (type name, variable name, Go type).
	Subject string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes backend errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedPrecisionKind indicates a precision outside the
	// recognised set, or one tagged with another dialect.
	ErrCodeUnsupportedPrecisionKind ErrorCode = "UNSUPPORTED_PRECISION_KIND"

	// ErrCodeUnsupportedNamedTypeKind indicates a named type outside the
	// recognised set of shapes.
	ErrCodeUnsupportedNamedTypeKind ErrorCode = "UNSUPPORTED_NAMED_TYPE_KIND"

	// ErrCodeMissingContext indicates required identifying information
	// (such as a containing struct name) was not supplied.
	ErrCodeMissingContext ErrorCode = "MISSING_CONTEXT"

	// ErrCodeDegenerateShape indicates a shape yields a zero or undefined
	// size, depth or element count.
	ErrCodeDegenerateShape ErrorCode = "DEGENERATE_SHAPE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewUnsupportedPrecisionKindError creates an Error for a precision the
// converter for dialect d cannot handle.
func NewUnsupportedPrecisionKindError(d Dialect, p any) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedPrecisionKind,
		Message: fmt.Sprintf("cannot convert precision type to %s", d.Upper()),
		Subject: fmt.Sprintf("%T", p),
		Details: map[string]string{"dialect": string(d)},
	}
}

// NewUnsupportedNamedTypeKindError creates an Error for an unknown named type.
func NewUnsupportedNamedTypeKindError(t any) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedNamedTypeKind,
		Message: "unknown named type",
		Subject: fmt.Sprintf("%T", t),
	}
}

// NewMissingContextError creates an Error for a missing piece of context.
func NewMissingContextError(subject, what string) *Error {
	return &Error{
		Code:    ErrCodeMissingContext,
		Message: what + " must be provided",
		Subject: subject,
	}
}

// NewDegenerateShapeError creates an Error for an unusable shape.
func NewDegenerateShapeError(subject, message string) *Error {
	return &Error{
		Code:    ErrCodeDegenerateShape,
		Message: message,
		Subject: subject,
	}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUnsupportedPrecisionKind reports whether err is an unsupported precision error.
func IsUnsupportedPrecisionKind(err error) bool {
	return CodeOf(err) == ErrCodeUnsupportedPrecisionKind
}

// IsUnsupportedNamedTypeKind reports whether err is an unsupported named type error.
func IsUnsupportedNamedTypeKind(err error) bool {
	return CodeOf(err) == ErrCodeUnsupportedNamedTypeKind
}

// IsMissingContext reports whether err is a missing context error.
func IsMissingContext(err error) bool {
	return CodeOf(err) == ErrCodeMissingContext
}

// IsDegenerateShape reports whether err is a degenerate shape error.
func IsDegenerateShape(err error) bool {
	return CodeOf(err) == ErrCodeDegenerateShape
}
