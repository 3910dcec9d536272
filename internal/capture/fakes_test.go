package capture

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
)

// fakeScreen is a single white monitor backed by an in-memory canvas.
type fakeScreen struct {
	canvas  *image.RGBA
	grabErr error
	grabs   []model.ScreenRect
}

func newFakeScreen(w, h int) *fakeScreen {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &fakeScreen{canvas: canvas}
}

func (s *fakeScreen) Monitors() ([]model.Monitor, error) {
	return []model.Monitor{{Index: 0, Bounds: model.RectFromImage(s.canvas.Bounds()), Primary: true}}, nil
}

func (s *fakeScreen) Grab(rect model.ScreenRect) (*image.RGBA, error) {
	s.grabs = append(s.grabs, rect)
	if s.grabErr != nil {
		return nil, s.grabErr
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Width(), rect.Height()))
	draw.Draw(out, out.Bounds(), s.canvas, image.Pt(rect.Left, rect.Top), draw.Src)
	return out, nil
}

// outline draws a one-pixel black rectangle outline covering r.
func outline(img *image.RGBA, r image.Rectangle) {
	drawRectangle(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, color.Black)
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

type fakeElement struct {
	name, class, role string
	rect              model.ScreenRect
	hasRect           bool
}

func (e *fakeElement) Name() string        { return e.name }
func (e *fakeElement) ClassName() string   { return e.class }
func (e *fakeElement) ControlType() string { return e.role }
func (e *fakeElement) BoundingRect() (model.ScreenRect, bool) {
	return e.rect, e.hasRect
}

// fakeAX returns fixed answers for both queries.
type fakeAX struct {
	atPoint  *fakeElement
	focused  *fakeElement
	err      error
	panicMsg string
}

func (a *fakeAX) ElementAtPoint(x, y int) (platform.Element, error) {
	if a.panicMsg != "" {
		panic(a.panicMsg)
	}
	if a.err != nil {
		return nil, a.err
	}
	if a.atPoint == nil {
		return nil, nil
	}
	return a.atPoint, nil
}

func (a *fakeAX) FocusedElement() (platform.Element, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.focused == nil {
		return nil, nil
	}
	return a.focused, nil
}

var errBoom = errors.New("boom")
