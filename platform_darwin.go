//go:build darwin

package main

// Registers the macOS accessibility, cursor and permission backends.
import _ "github.com/mj1618/stepcast/internal/platform/darwin"
