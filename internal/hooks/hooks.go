// Package hooks feeds global mouse and keyboard events into a Handler.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode"

	"github.com/mj1618/stepcast/internal/platform"
)

// Handler receives normalized input events. Calls are made sequentially
// from a single goroutine.
type Handler interface {
	HandleMouse(ctx context.Context, ev platform.MouseEvent)
	HandleKey(ctx context.Context, ev platform.KeyEvent)
}

// Source delivers events to h until ctx is done.
type Source interface {
	Run(ctx context.Context, h Handler) error
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(ctx context.Context, h Handler) error

// Run calls the underlying function.
func (f SourceFunc) Run(ctx context.Context, h Handler) error {
	return f(ctx, h)
}

// Tracker remembers the last pointer position seen by the hook. It serves
// as the Cursor on platforms without a native cursor query.
type Tracker struct {
	mu   sync.Mutex
	x, y int
	seen bool
}

// Observe records a pointer position.
func (t *Tracker) Observe(x, y int) {
	t.mu.Lock()
	t.x, t.y, t.seen = x, y, true
	t.mu.Unlock()
}

// CursorPosition returns the last observed position.
func (t *Tracker) CursorPosition() (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.seen {
		return 0, 0, fmt.Errorf("no pointer movement observed yet")
	}
	return t.x, t.y, nil
}

type rawKind int

const (
	rawOther rawKind = iota
	rawMousePress
	rawMouseMove
	rawKeyTyped
	rawKeyPress
)

// rawEvent is the subset of a native hook event the dispatcher needs.
type rawEvent struct {
	kind    rawKind
	button  uint16
	char    rune
	keycode uint16
	x, y    int
}

// keyCodes are the native codes for keys that carry no character.
type keyCodes struct {
	enter, tab, backspace uint16
}

// Native mouse button numbering (1 left, 2 right, 3 middle).
func mouseButton(b uint16) platform.MouseButton {
	switch b {
	case 1:
		return platform.MouseLeft
	case 2:
		return platform.MouseRight
	case 3:
		return platform.MouseMiddle
	default:
		return platform.MouseOther
	}
}

// dispatcher turns raw events into Handler calls.
type dispatcher struct {
	codes   keyCodes
	tracker *Tracker
	log     *slog.Logger
}

func (d *dispatcher) dispatch(ctx context.Context, h Handler, ev rawEvent) {
	switch ev.kind {
	case rawMouseMove:
		d.tracker.Observe(ev.x, ev.y)
	case rawMousePress:
		d.tracker.Observe(ev.x, ev.y)
		h.HandleMouse(ctx, platform.MouseEvent{X: ev.x, Y: ev.y, Button: mouseButton(ev.button)})
	case rawKeyPress:
		if kind := d.classifyPress(ev.keycode); kind != platform.KeyIgnored {
			h.HandleKey(ctx, platform.KeyEvent{Kind: kind})
		}
	case rawKeyTyped:
		if isTypable(ev.char) {
			h.HandleKey(ctx, platform.KeyEvent{Kind: platform.KeyChar, Char: ev.char})
		}
	}
}

func (d *dispatcher) classifyPress(code uint16) platform.KeyKind {
	switch code {
	case d.codes.enter:
		return platform.KeyEnter
	case d.codes.tab:
		return platform.KeyTab
	case d.codes.backspace:
		return platform.KeyBackspace
	default:
		return platform.KeyIgnored
	}
}

// isTypable excludes control characters, which arrive as typed events for
// Enter, Tab and Backspace on some platforms.
func isTypable(r rune) bool {
	return r != 0 && r != unicode.ReplacementChar && !unicode.IsControl(r) && unicode.IsPrint(r)
}
