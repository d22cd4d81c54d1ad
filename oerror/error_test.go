package oerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormats(t *testing.T) {
	err := New("sequence %d out of order", 7)
	if err.Error() != "sequence 7 out of order" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if New("100%").Error() != "100%" {
		t.Fatalf("message without args must not be formatted")
	}
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	sentinel := New("buffer full")
	wrapped := fmt.Errorf("push 3: %w", sentinel)
	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected errors.Is to find the sentinel")
	}
	var target *OomphError
	if !errors.As(wrapped, &target) || target != sentinel {
		t.Fatalf("expected errors.As to unwrap to the sentinel")
	}
}
