package platform

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/kbinani/screenshot"
	"github.com/mj1618/stepcast/internal/model"
)

// KbinaniScreen implements Screen on top of github.com/kbinani/screenshot.
type KbinaniScreen struct{}

// NewKbinaniScreen creates a screen backend for the current OS.
func NewKbinaniScreen() *KbinaniScreen {
	return &KbinaniScreen{}
}

// Monitors returns all active displays. Display 0 is the primary one.
func (s *KbinaniScreen) Monitors() ([]model.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("no active displays")
	}
	monitors := make([]model.Monitor, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, model.Monitor{
			Index:   i,
			Bounds:  model.RectFromImage(screenshot.GetDisplayBounds(i)),
			Primary: i == 0,
		})
	}
	return monitors, nil
}

// Grab captures rect from the screen.
func (s *KbinaniScreen) Grab(rect model.ScreenRect) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("empty capture rect %v", rect)
	}
	img, err := screenshot.CaptureRect(rect.Image())
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", rect, err)
	}
	return rebase(img), nil
}

// rebase returns img with its bounds moved to start at (0,0).
func rebase(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(out, out.Rect, img, img.Rect.Min, draw.Src)
	return out
}
