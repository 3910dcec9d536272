package model

import (
	"fmt"
	"image"
)

// ScreenRect is a rectangle in absolute screen coordinates.
// Right and Bottom are exclusive, matching image.Rectangle.
type ScreenRect struct {
	Left   int `yaml:"left"   json:"left"`
	Top    int `yaml:"top"    json:"top"`
	Right  int `yaml:"right"  json:"right"`
	Bottom int `yaml:"bottom" json:"bottom"`
}

// RectAround returns a w×h rectangle centered on (x, y).
func RectAround(x, y, w, h int) ScreenRect {
	return ScreenRect{
		Left:   x - w/2,
		Top:    y - h/2,
		Right:  x - w/2 + w,
		Bottom: y - h/2 + h,
	}
}

// RectFromImage converts an image.Rectangle to a ScreenRect.
func RectFromImage(r image.Rectangle) ScreenRect {
	return ScreenRect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// Width returns the horizontal extent.
func (r ScreenRect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r ScreenRect) Height() int { return r.Bottom - r.Top }

// Area returns width × height, or 0 for degenerate rectangles.
func (r ScreenRect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle has no positive area.
func (r ScreenRect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Center returns the integer midpoint.
func (r ScreenRect) Center() (int, int) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// ContainsPoint reports whether (x, y) lies within the rectangle grown by
// margin on every side. Edges are inclusive.
func (r ScreenRect) ContainsPoint(x, y, margin int) bool {
	return r.Left-margin <= x && x <= r.Right+margin &&
		r.Top-margin <= y && y <= r.Bottom+margin
}

// Translate returns the rectangle shifted by (dx, dy).
func (r ScreenRect) Translate(dx, dy int) ScreenRect {
	return ScreenRect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Inset grows the rectangle by p on every side (shrinks for negative p).
func (r ScreenRect) Inset(p int) ScreenRect {
	return ScreenRect{Left: r.Left - p, Top: r.Top - p, Right: r.Right + p, Bottom: r.Bottom + p}
}

// Intersect returns the overlap of r and o. The result is Empty when they
// do not overlap.
func (r ScreenRect) Intersect(o ScreenRect) ScreenRect {
	out := ScreenRect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return ScreenRect{}
	}
	return out
}

// Image converts to an image.Rectangle.
func (r ScreenRect) Image() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func (r ScreenRect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Monitor describes one physical display in screen coordinates.
type Monitor struct {
	Index   int        `yaml:"index"             json:"index"`
	Bounds  ScreenRect `yaml:"bounds"            json:"bounds"`
	Primary bool       `yaml:"primary,omitempty" json:"primary,omitempty"`
}
