package platform

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseOther
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "other"
	}
}

// KeyKind classifies a key press for typing aggregation.
type KeyKind int

const (
	KeyChar KeyKind = iota // printable character, see KeyEvent.Char
	KeyEnter
	KeyTab
	KeyBackspace
	KeyIgnored // modifiers, arrows, function keys
)

// KeyEvent is a keyboard press delivered by a global hook.
type KeyEvent struct {
	Kind KeyKind
	Char rune
}

// MouseEvent is a mouse-button press delivered by a global hook.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
}
