package hooks

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mj1618/stepcast/internal/platform"
)

type recordingHandler struct {
	mouse []platform.MouseEvent
	keys  []platform.KeyEvent
}

func (h *recordingHandler) HandleMouse(_ context.Context, ev platform.MouseEvent) {
	h.mouse = append(h.mouse, ev)
}

func (h *recordingHandler) HandleKey(_ context.Context, ev platform.KeyEvent) {
	h.keys = append(h.keys, ev)
}

func newTestDispatcher() (*dispatcher, *Tracker) {
	tr := &Tracker{}
	return &dispatcher{codes: keyCodes{enter: 28, tab: 15, backspace: 14}, tracker: tr, log: slog.Default()}, tr
}

func TestDispatch_Mouse(t *testing.T) {
	d, tr := newTestDispatcher()
	h := &recordingHandler{}
	ctx := context.Background()

	d.dispatch(ctx, h, rawEvent{kind: rawMouseMove, x: 5, y: 6})
	if len(h.mouse) != 0 {
		t.Error("move should not reach the handler")
	}
	if x, y, err := tr.CursorPosition(); err != nil || x != 5 || y != 6 {
		t.Errorf("tracker: got (%d,%d,%v)", x, y, err)
	}

	d.dispatch(ctx, h, rawEvent{kind: rawMousePress, button: 1, x: 100, y: 200})
	d.dispatch(ctx, h, rawEvent{kind: rawMousePress, button: 2, x: 1, y: 1})
	want := []platform.MouseEvent{
		{X: 100, Y: 200, Button: platform.MouseLeft},
		{X: 1, Y: 1, Button: platform.MouseRight},
	}
	if len(h.mouse) != 2 || h.mouse[0] != want[0] || h.mouse[1] != want[1] {
		t.Errorf("got %v, want %v", h.mouse, want)
	}
}

func TestDispatch_Keys(t *testing.T) {
	d, _ := newTestDispatcher()
	h := &recordingHandler{}
	ctx := context.Background()

	for _, ev := range []rawEvent{
		{kind: rawKeyTyped, char: 'h'},
		{kind: rawKeyTyped, char: 'é'},
		{kind: rawKeyTyped, char: '\r'}, // control chars come through the press path
		{kind: rawKeyTyped, char: '\b'},
		{kind: rawKeyPress, keycode: 14},
		{kind: rawKeyPress, keycode: 15},
		{kind: rawKeyPress, keycode: 28},
		{kind: rawKeyPress, keycode: 42}, // shift
		{kind: rawOther},
	} {
		d.dispatch(ctx, h, ev)
	}

	want := []platform.KeyEvent{
		{Kind: platform.KeyChar, Char: 'h'},
		{Kind: platform.KeyChar, Char: 'é'},
		{Kind: platform.KeyBackspace},
		{Kind: platform.KeyTab},
		{Kind: platform.KeyEnter},
	}
	if len(h.keys) != len(want) {
		t.Fatalf("got %v, want %v", h.keys, want)
	}
	for i := range want {
		if h.keys[i] != want[i] {
			t.Errorf("key %d: got %+v, want %+v", i, h.keys[i], want[i])
		}
	}
}

func TestMouseButton(t *testing.T) {
	tests := map[uint16]platform.MouseButton{
		1: platform.MouseLeft,
		2: platform.MouseRight,
		3: platform.MouseMiddle,
		4: platform.MouseOther,
	}
	for in, want := range tests {
		if got := mouseButton(in); got != want {
			t.Errorf("mouseButton(%d): got %v, want %v", in, got, want)
		}
	}
}

func TestTracker_Unseen(t *testing.T) {
	var tr Tracker
	if _, _, err := tr.CursorPosition(); err == nil {
		t.Error("expected error before any movement")
	}
}

func TestSourceFunc(t *testing.T) {
	called := false
	var src Source = SourceFunc(func(ctx context.Context, h Handler) error {
		called = true
		h.HandleKey(ctx, platform.KeyEvent{Kind: platform.KeyEnter})
		return nil
	})
	h := &recordingHandler{}
	if err := src.Run(context.Background(), h); err != nil || !called || len(h.keys) != 1 {
		t.Errorf("err=%v called=%v keys=%v", err, called, h.keys)
	}
}
