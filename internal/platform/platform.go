package platform

import (
	"image"

	"github.com/mj1618/stepcast/internal/model"
)

// Element is a thin view over one native accessibility element.
type Element interface {
	Name() string
	// ClassName is the native window class (Windows) or AX role (macOS).
	ClassName() string
	// ControlType is the raw control-type or role name.
	ControlType() string
	// BoundingRect returns the element frame in screen coordinates.
	// ok is false when the platform reports no geometry.
	BoundingRect() (r model.ScreenRect, ok bool)
}

// Accessibility queries the OS accessibility tree. Implementations must be
// safe to call off the UI thread. A nil Element with a nil error means
// "nothing there".
type Accessibility interface {
	ElementAtPoint(x, y int) (Element, error)
	FocusedElement() (Element, error)
}

// Cursor reports the pointer position in screen coordinates.
type Cursor interface {
	CursorPosition() (x, y int, err error)
}

// Screen grabs pixels from the attached displays.
type Screen interface {
	// Monitors lists attached displays; the primary display is first.
	Monitors() ([]model.Monitor, error)
	// Grab captures rect, which callers keep within one monitor.
	// The returned image has its origin at (0,0).
	Grab(rect model.ScreenRect) (*image.RGBA, error)
}
