//go:build darwin

// Package darwin provides macOS accessibility and cursor backends using the
// ApplicationServices and CoreGraphics frameworks.
// All functionality requires CGo; without it the package registers nothing
// and captures fall back to pixel-only heuristics.
package darwin
