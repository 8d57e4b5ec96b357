package sqlerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *Error
		kind error
		msg  string
	}{
		{"type mismatch", TypeMismatch("bad %s", "value"), ErrTypeMismatch, "bad value"},
		{"invalid operand", InvalidOperandKind("Invalid value provided to operator %q", "LIKE"), ErrInvalidOperandKind,
			`Invalid value provided to operator "LIKE"`},
		{"empty operand set", EmptyOperandSet("empty"), ErrEmptyOperandSet, "empty"},
		{"unsupported option", UnsupportedOption("nope"), ErrUnsupportedOption, "nope"},
		{"unknown operator", UnknownOperator("UNKNOWN"), ErrUnknownOperator, `Unknown operator "UNKNOWN".`},
		{"unresolved field", UnresolvedField("derp"), ErrUnresolvedField, `Field "derp" not found.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("expected errors.Is(%v, %v)", tt.err, tt.kind)
			}
			if !IsKind(tt.err, tt.kind) {
				t.Errorf("expected IsKind to match %v", tt.kind)
			}
			if errors.Is(tt.err, ErrExecution) {
				t.Error("expected no match against another kind")
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("expected:\n  %s\ngot:\n  %s", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestExecution(t *testing.T) {
	t.Parallel()
	cause := errors.New("no such table: derp")
	err := Execution("SELECT * FROM derp", cause)

	if !errors.Is(err, ErrExecution) {
		t.Error("expected execution kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrapped")
	}
	if err.Error() != cause.Error() {
		t.Errorf("expected engine message, got %q", err.Error())
	}

	wrapped := fmt.Errorf("insert user: %w", err)
	if got := SQLOf(wrapped); got != "SELECT * FROM derp" {
		t.Errorf("expected statement from wrapped error, got %q", got)
	}
	if !IsKind(wrapped, ErrExecution) {
		t.Error("expected IsKind through wrapping")
	}
	if SQLOf(cause) != "" || IsKind(cause, ErrExecution) {
		t.Error("expected plain errors to carry no classification")
	}
}

func TestErrorFallbackMessage(t *testing.T) {
	t.Parallel()
	e := &Error{Kind: ErrTypeMismatch}
	if e.Error() != ErrTypeMismatch.Error() {
		t.Errorf("expected kind message, got %q", e.Error())
	}
}
