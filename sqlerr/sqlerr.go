// Package sqlerr defines the error kinds reported while generating and
// executing SQL. Each kind has a sentinel; concrete errors are *Error values
// whose Is method matches their kind, so callers can write
//
//	if errors.Is(err, sqlerr.ErrUnresolvedField) { ... }
package sqlerr

import (
	"errors"
	"fmt"
)

// Sentinel kinds.
var (
	// ErrTypeMismatch is reported when a value has the wrong type for the
	// operation, e.g. a sequence passed to a relational operator.
	ErrTypeMismatch = errors.New("litequery: type mismatch")

	// ErrInvalidOperandKind is reported when an operand kind is not valid
	// for the operator, e.g. a sequence passed to LIKE.
	ErrInvalidOperandKind = errors.New("litequery: invalid operand kind")

	// ErrEmptyOperandSet is reported for an empty sequence operand.
	ErrEmptyOperandSet = errors.New("litequery: empty operand set")

	// ErrUnsupportedOption is reported for options the engine cannot honor.
	ErrUnsupportedOption = errors.New("litequery: unsupported option")

	// ErrUnknownOperator is reported for operators outside the known set.
	ErrUnknownOperator = errors.New("litequery: unknown operator")

	// ErrUnresolvedField is reported when a field name cannot be resolved.
	ErrUnresolvedField = errors.New("litequery: unresolved field")

	// ErrExecution is reported when the engine rejects a statement.
	ErrExecution = errors.New("litequery: execution failure")
)

// Error is a classified error. Kind is one of the sentinels above.
type Error struct {
	Kind error
	// SQL is the statement that failed, set for execution failures.
	SQL string
	msg string
	err error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.Kind.Error()
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// TypeMismatch returns an ErrTypeMismatch error.
func TypeMismatch(format string, args ...any) *Error {
	return newError(ErrTypeMismatch, format, args...)
}

// InvalidOperandKind returns an ErrInvalidOperandKind error.
func InvalidOperandKind(format string, args ...any) *Error {
	return newError(ErrInvalidOperandKind, format, args...)
}

// EmptyOperandSet returns an ErrEmptyOperandSet error.
func EmptyOperandSet(format string, args ...any) *Error {
	return newError(ErrEmptyOperandSet, format, args...)
}

// UnsupportedOption returns an ErrUnsupportedOption error.
func UnsupportedOption(format string, args ...any) *Error {
	return newError(ErrUnsupportedOption, format, args...)
}

// UnknownOperator returns an ErrUnknownOperator error for the named operator.
func UnknownOperator(name string) *Error {
	return newError(ErrUnknownOperator, "Unknown operator %q.", name)
}

// UnresolvedField returns an ErrUnresolvedField error for the named field.
func UnresolvedField(name string) *Error {
	return newError(ErrUnresolvedField, "Field %q not found.", name)
}

// Execution wraps an engine error with the statement that caused it.
// The message is the engine's own message.
func Execution(sql string, cause error) *Error {
	return &Error{Kind: ErrExecution, SQL: sql, err: cause}
}

// IsKind reports whether err is classified as kind.
func IsKind(err, kind error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// SQLOf returns the statement attached to err, or "" if none.
func SQLOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.SQL
	}
	return ""
}
