package gpio

import (
	"errors"
	"testing"
)

func TestFakePinSet(t *testing.T) {
	f := NewFakePin()

	if f.High() {
		t.Error("should be low before any Set")
	}
	if err := f.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.High() {
		t.Error("expected high after Set(true)")
	}
	f.Set(false)
	if f.High() {
		t.Error("expected low after Set(false)")
	}
	if len(f.Levels) != 2 {
		t.Errorf("expected 2 recorded levels, got %d", len(f.Levels))
	}
}

func TestFakePinError(t *testing.T) {
	f := NewFakePin()
	f.SetError = errors.New("simulated error")

	err := f.Set(true)
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if len(f.Levels) != 0 {
		t.Error("failed Set should not be recorded")
	}
}

func TestFakePinClose(t *testing.T) {
	f := NewFakePin()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}
