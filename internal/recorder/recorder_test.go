package recorder

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/hooks"
	"github.com/mj1618/stepcast/internal/logging"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
	"github.com/mj1618/stepcast/internal/refine"
)

type whiteScreen struct{ w, h int }

func (s whiteScreen) Monitors() ([]model.Monitor, error) {
	return []model.Monitor{{Bounds: model.ScreenRect{Right: s.w, Bottom: s.h}, Primary: true}}, nil
}

func (s whiteScreen) Grab(rect model.ScreenRect) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, rect.Width(), rect.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img, nil
}

type fixedCursor struct{ x, y int }

func (c fixedCursor) CursorPosition() (int, int, error) { return c.x, c.y, nil }

func newTestRecorder(t *testing.T, p *platform.Provider, src hooks.Source) *Recorder {
	t.Helper()
	r, err := New(Options{
		Provider: p,
		Capture:  capture.DefaultOptions(),
		Logger:   logging.Discard(),
		Source:   src,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func scripted(events ...func(ctx context.Context, h hooks.Handler)) hooks.Source {
	return hooks.SourceFunc(func(ctx context.Context, h hooks.Handler) error {
		for _, ev := range events {
			ev(ctx, h)
		}
		return nil
	})
}

func click(x, y int) func(context.Context, hooks.Handler) {
	return func(ctx context.Context, h hooks.Handler) {
		h.HandleMouse(ctx, platform.MouseEvent{X: x, Y: y, Button: platform.MouseLeft})
	}
}

func key(kind platform.KeyKind, r rune) func(context.Context, hooks.Handler) {
	return func(ctx context.Context, h hooks.Handler) {
		h.HandleKey(ctx, platform.KeyEvent{Kind: kind, Char: r})
	}
}

func TestNew_RequiresProvider(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestRunHooks_EventsReachQueueInOrder(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{1000, 1000}, Cursor: fixedCursor{300, 300}}
	src := scripted(
		key(platform.KeyChar, 'h'),
		key(platform.KeyChar, 'i'),
		click(500, 500),
		key(platform.KeyChar, 'x'),
		key(platform.KeyEnter, 0),
	)
	r := newTestRecorder(t, p, src)
	r.StartRecording()
	if !r.Recording() {
		t.Fatal("expected recording")
	}
	if err := r.RunHooks(context.Background()); err != nil {
		t.Fatalf("RunHooks: %v", err)
	}

	got := r.Drain()
	want := []string{
		"Type 'hi' into 'text field'",
		capture.GenericDescription,
		"Type 'x' into 'text field'",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, rec := range got {
		if rec.Description != want[i] {
			t.Errorf("record %d: got %q, want %q", i, rec.Description, want[i])
		}
		if len(rec.Screenshot) == 0 {
			t.Errorf("record %d has no screenshot", i)
		}
	}
	if r.Pending() != 0 {
		t.Errorf("queue not drained: %d", r.Pending())
	}
}

func TestStopped_IgnoresEvents(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{1000, 1000}}
	r := newTestRecorder(t, p, scripted(click(10, 10)))
	if err := r.RunHooks(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Next(); ok {
		t.Error("stopped recorder should not enqueue")
	}
}

func TestStartRecording_DropsStaleRecords(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{1000, 1000}}
	r := newTestRecorder(t, p, scripted(click(10, 10)))
	r.StartRecording()
	_ = r.RunHooks(context.Background())
	r.StopRecording()
	if r.Pending() != 1 {
		t.Fatalf("pending after stop: got %d, want 1", r.Pending())
	}
	r.StartRecording()
	if r.Pending() != 0 {
		t.Errorf("pending after restart: got %d, want 0", r.Pending())
	}
}

func TestCapture_DoesNotEnqueue(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{1000, 1000}}
	r := newTestRecorder(t, p, scripted())
	rec := r.Capture(context.Background(), 400, 400)
	if rec.ID == "" || len(rec.Screenshot) == 0 {
		t.Errorf("incomplete record: %+v", rec)
	}
	if r.Pending() != 0 {
		t.Error("manual capture should not be queued")
	}
}

func TestRunHooks_SourceErrors(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{100, 100}}
	r := newTestRecorder(t, p, hooks.SourceFunc(func(context.Context, hooks.Handler) error {
		return platform.ErrUnsupported
	}))
	err := r.RunHooks(context.Background())
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Errorf("got %v", err)
	}

	r = newTestRecorder(t, p, hooks.SourceFunc(func(ctx context.Context, _ hooks.Handler) error {
		return context.Canceled
	}))
	if err := r.RunHooks(context.Background()); err != nil {
		t.Errorf("cancellation should not be an error, got %v", err)
	}
}

func TestProcessStep_PassThrough(t *testing.T) {
	p := &platform.Provider{Screen: whiteScreen{1000, 1000}}
	r := newTestRecorder(t, p, scripted())
	rec := r.Capture(context.Background(), 400, 400)

	res := r.ProcessStep(context.Background(), refine.Step{
		Screenshot:  rec.Screenshot,
		BoundingBox: &rec.BoundingBox,
		Context:     "Click 'Save'",
	})
	if res.Description != "Click 'Save'" || res.Refined {
		t.Errorf("got %q refined=%v", res.Description, res.Refined)
	}

	res = r.ProcessStep(context.Background(), refine.Step{Screenshot: rec.Screenshot, Context: capture.BlindDescription})
	if !strings.Contains(res.Description, "highlighted") {
		t.Errorf("expected fallback description, got %q", res.Description)
	}
}
