package platform

import (
	"runtime"
	"testing"
)

func TestNewProvider_ReturnsProvider(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("skipping on non-darwin")
	}
	// The darwin package may or may not be linked into the test binary.
	// We just verify the function doesn't panic.
	_, _ = NewProvider()
}

func TestNewProvider_ScreenOnlyFallback(t *testing.T) {
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	p, err := NewProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Screen == nil {
		t.Error("screen backend should always be present")
	}
	if p.Accessibility != nil || p.Cursor != nil {
		t.Error("accessibility and cursor should be nil without a platform package")
	}
}
