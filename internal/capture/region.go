package capture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
)

// ErrEmptyFrame is returned when a region grab produced no pixels.
var ErrEmptyFrame = errors.New("empty frame")

// Frame is a grabbed pixel buffer and the screen rectangle it covers.
// Img bounds start at (0,0); pixel (0,0) is Rect's top-left corner.
type Frame struct {
	Img  *image.RGBA
	Rect model.ScreenRect
}

// Usable reports whether the frame holds pixels matching its rectangle.
func (f *Frame) Usable() bool {
	if f == nil || f.Img == nil || f.Rect.Empty() {
		return false
	}
	b := f.Img.Bounds()
	return b.Dx() == f.Rect.Width() && b.Dy() == f.Rect.Height()
}

// RegionCapturer grabs screen rectangles clamped to monitor bounds.
type RegionCapturer struct {
	screen platform.Screen
	log    *slog.Logger
}

// NewRegionCapturer creates a capturer. screen may be nil, in which case
// every grab yields an empty frame.
func NewRegionCapturer(screen platform.Screen, log *slog.Logger) *RegionCapturer {
	if log == nil {
		log = slog.Default()
	}
	return &RegionCapturer{screen: screen, log: log}
}

// Capture grabs rect and never fails outward: on any error it logs and
// returns an empty frame. Callers check Frame.Usable.
func (c *RegionCapturer) Capture(rect model.ScreenRect) *Frame {
	f, err := c.Grab(rect)
	if err != nil {
		c.log.Warn("region capture failed", "rect", rect.String(), "err", err)
		return &Frame{}
	}
	return f
}

// Grab is Capture with errors. The returned frame may be smaller than rect
// where it runs off the selected monitor.
func (c *RegionCapturer) Grab(rect model.ScreenRect) (*Frame, error) {
	if c.screen == nil {
		return nil, platform.ErrUnsupported
	}
	monitors, err := c.screen.Monitors()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	clamped := ClampToMonitor(rect, monitors)
	if clamped.Empty() {
		return nil, fmt.Errorf("rect %v outside monitor: %w", rect, ErrEmptyFrame)
	}
	img, err := c.screen.Grab(clamped)
	if err != nil {
		return nil, err
	}
	f := &Frame{Img: img, Rect: clamped}
	if !f.Usable() {
		return nil, fmt.Errorf("grab %v: %w", clamped, ErrEmptyFrame)
	}
	return f, nil
}

// ClampToMonitor intersects rect with the monitor containing its center,
// or the primary monitor when no monitor does.
func ClampToMonitor(rect model.ScreenRect, monitors []model.Monitor) model.ScreenRect {
	if len(monitors) == 0 {
		return model.ScreenRect{}
	}
	cx, cy := rect.Center()
	target := primaryMonitor(monitors)
	for _, m := range monitors {
		b := m.Bounds
		if cx >= b.Left && cx < b.Right && cy >= b.Top && cy < b.Bottom {
			target = m
			break
		}
	}
	return rect.Intersect(target.Bounds)
}

func primaryMonitor(monitors []model.Monitor) model.Monitor {
	for _, m := range monitors {
		if m.Primary {
			return m
		}
	}
	return monitors[0]
}
