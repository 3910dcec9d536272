//go:build cgo

package hooks

import (
	"context"
	"log/slog"

	hook "github.com/robotn/gohook"
)

// GlobalSource reads system-wide input through gohook.
type GlobalSource struct {
	d dispatcher
}

// NewGlobalSource creates a source that reports pointer positions to tracker.
func NewGlobalSource(tracker *Tracker, log *slog.Logger) *GlobalSource {
	if log == nil {
		log = slog.Default()
	}
	return &GlobalSource{d: dispatcher{
		codes: keyCodes{
			enter:     hook.Keycode["enter"],
			tab:       hook.Keycode["tab"],
			backspace: hook.Keycode["backspace"],
		},
		tracker: tracker,
		log:     log,
	}}
}

// Run installs the global hook and blocks until ctx is done. Only one
// GlobalSource may run at a time.
func (s *GlobalSource) Run(ctx context.Context, h Handler) error {
	events := hook.Start()
	defer hook.End()
	s.d.log.Info("input hooks installed")

	for {
		select {
		case <-ctx.Done():
			s.d.log.Info("input hooks removed")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.d.dispatch(ctx, h, translate(ev))
		}
	}
}

func translate(ev hook.Event) rawEvent {
	raw := rawEvent{
		button:  ev.Button,
		char:    ev.Keychar,
		keycode: ev.Keycode,
		x:       int(ev.X),
		y:       int(ev.Y),
	}
	switch ev.Kind {
	case hook.MouseHold: // button pressed
		raw.kind = rawMousePress
	case hook.MouseMove, hook.MouseDrag:
		raw.kind = rawMouseMove
	case hook.KeyDown: // character typed
		raw.kind = rawKeyTyped
	case hook.KeyHold: // key pressed
		raw.kind = rawKeyPress
	}
	return raw
}
