package rowset

import (
	"testing"
)

func TestNativeSourceUnavailable(t *testing.T) {
	if NativeSourceAvailable() {
		t.Skip("engine library present; unavailability path not testable")
	}

	// Absence of the library must be a loud error, never a silent fallback.
	if NativeLibraryError() == nil {
		t.Error("Expected a load error when the engine library is missing")
	}

	src, err := NewNativeSource(1)
	if err == nil {
		t.Fatal("Expected NewNativeSource to fail without the engine library")
	}
	if src != nil {
		t.Error("Expected nil source on load failure")
	}
	if !IsError(err, ErrNative) {
		t.Errorf("Expected ErrNative, got %v", err)
	}
}

func TestNativeSourceNilHandle(t *testing.T) {
	if !NativeSourceAvailable() {
		t.Skip("engine library not present")
	}

	if _, err := NewNativeSource(0); err == nil {
		t.Error("Expected error for nil cursor handle")
	}
}
