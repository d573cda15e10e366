// Package result provides the tagged success/failure value returned by every
// sanitization and validation operation. Invalid input is data, not a panic:
// callers branch on the result instead of recovering from errors.
package result

import "fmt"

// Kind classifies why an operation failed.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindSecurityViolation Kind = "security_violation"
	KindSchemaViolation   Kind = "schema_violation"
	KindParseFailure      Kind = "parse_failure"
	KindNotFound          Kind = "not_found"
)

// Error carries a failure kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result holds either a value or a classified failure.
// The zero value is a failure with an empty kind; construct through Ok or Err.
type Result[T any] struct {
	value T
	err   *Error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Err builds a failed result with the given kind and message.
func Err[T any](kind Kind, message string) Result[T] {
	return Result[T]{err: &Error{Kind: kind, Message: message}}
}

// Errf builds a failed result with a formatted message.
func Errf[T any](kind Kind, format string, args ...any) Result[T] {
	return Err[T](kind, fmt.Sprintf(format, args...))
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the wrapped value. Only meaningful when OK is true.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil for a successful result.
func (r Result[T]) Err() *Error {
	return r.err
}

// Kind returns the failure kind, or the empty kind for a successful result.
func (r Result[T]) Kind() Kind {
	if r.err == nil {
		return ""
	}
	return r.err.Kind
}
