// Package apperror defines the closed set of domain error kinds surfaced
// through the GraphQL result unions. Every error crossing the resolver
// boundary is one of these kinds; anything else is coerced to Unknown.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the domain error variants.
type Kind int

const (
	// KindUnknown covers unexpected backend, storage, and render failures.
	// The original cause is kept for logs but never shown to callers.
	KindUnknown Kind = iota
	// KindNotFound means the referenced entity does not exist.
	KindNotFound
	// KindInvalidInput carries the full list of field validation errors.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// Error is the uniform carrier for domain failures. The resolution layer
// dispatches on Kind to pick the GraphQL object type.
type Error struct {
	Kind    Kind
	Message string
	// Fields is populated only for KindInvalidInput.
	Fields []FieldError

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the causal chain to errors.Is/As without leaking it
// into the client-visible message.
func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unknown builds a KindUnknown error. The cause is preserved internally;
// only msg is client-visible.
func Unknown(msg string, cause error) *Error {
	return &Error{
		Kind:    KindUnknown,
		Message: msg,
		cause:   cause,
	}
}

// InvalidInput builds a KindInvalidInput error whose message summarizes
// the failing field names.
func InvalidInput(fields []FieldError) *Error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return &Error{
		Kind:    KindInvalidInput,
		Message: fmt.Sprintf("Input validation failed for fields: [%s]", strings.Join(names, ", ")),
		Fields:  fields,
	}
}

// Wrap coerces any error into a domain *Error. Domain errors pass through
// untouched; everything else downgrades to Unknown so raw driver or
// collaborator errors never cross the API boundary.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return Unknown("Unknown error occurred", err)
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Kind == kind
}
