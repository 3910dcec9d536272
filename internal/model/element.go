package model

// CapturedElement is the accessibility metadata for one resolved UI element.
// It lives for a single capture only.
type CapturedElement struct {
	Name      string      // Display label, may be empty
	Type      string      // Control-type taxonomy, e.g. "Button"
	ClassName string      // Native window class or role, used for blind-window detection
	Rect      *ScreenRect // nil when the platform reported no geometry
}

// Element type for steps located from pixels instead of the accessibility tree.
const VisualElementType = "VisualElement"

// UnknownType is used when no control type is known.
const UnknownType = "Unknown"
