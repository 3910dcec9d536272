package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
// Accessibility and Cursor may be nil; callers degrade to fallbacks.
type Provider struct {
	Screen        Screen
	Accessibility Accessibility
	Cursor        Cursor
}

// ErrUnsupported is returned when a capability is missing from this build.
var ErrUnsupported = fmt.Errorf("not supported on %s/%s in this build (cgo required for accessibility and input hooks)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It returns a non-nil error describing missing OS permissions.
var RequestPermissionsFunc func() error

// NewProvider returns a Provider for the current OS. Without a registered
// platform package only screen capture is available.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return &Provider{Screen: NewKbinaniScreen()}, nil
	}
	return NewProviderFunc()
}
