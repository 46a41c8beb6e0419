package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewIncludesCallSite(t *testing.T) {
	err := New("boom %d", 42)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "errors_test.go:") {
		t.Errorf("expected call site in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "boom 42") {
		t.Errorf("expected formatted message, got %q", err.Error())
	}
}

func TestWrapfNilPassthrough(t *testing.T) {
	if err := Wrapf(nil, "context"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestWrapfPreservesSentinel(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := Wrapf(sentinel, "while doing something")
	if !stderrors.Is(err, sentinel) {
		t.Errorf("wrapped error lost its sentinel: %v", err)
	}
	if !strings.Contains(err.Error(), "while doing something") {
		t.Errorf("expected context in message, got %q", err.Error())
	}
}
