// Package testutil holds assertion helpers and entity fixtures shared by the
// package tests.
package testutil

import (
	"errors"
	"testing"
)

// AssertEqual checks that got == want and reports a descriptive error if not.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n  %v\ngot:\n  %v", want, got)
	}
}

// AssertSQL checks the result of a SQL generating call: err must be nil and
// got must equal expected.
func AssertSQL(t *testing.T, got string, err error, expected string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Errorf("expected:\n  %s\ngot:\n  %s", expected, got)
	}
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
}

// AssertErrorIs fails the test unless err matches kind and, when msg is not
// empty, carries exactly that message.
func AssertErrorIs(t *testing.T, err, kind error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v but got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected error of kind %v, got %T: %v", kind, err, err)
	}
	if msg != "" && err.Error() != msg {
		t.Errorf("expected message:\n  %s\ngot:\n  %s", msg, err.Error())
	}
}
