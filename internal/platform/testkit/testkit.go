// Package testkit holds small assertions shared by package tests
package testkit

import (
	"strings"
	"testing"
)

// MustPanic fails t unless fn panics, and returns the recovered value
func MustPanic(t testing.TB, fn func()) (got any) {
	t.Helper()
	defer func() {
		got = recover()
		if got == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustContain fails t unless s contains sub
func MustContain(t testing.TB, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected %q in:\n%s", sub, s)
	}
}
