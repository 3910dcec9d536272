package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/mj1618/stepcast/internal/model"
	"golang.org/x/image/draw"
)

// SpotlightColor is the border color drawn around the chosen element.
var SpotlightColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

var blankColor = color.RGBA{A: 255}

// ComposePadded copies crop out of f onto a canvas of exactly crop's size.
// Parts of crop that f does not cover stay blank (opaque black). An
// unusable frame yields an all-blank canvas.
func ComposePadded(f *Frame, crop model.ScreenRect) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, max(crop.Width(), 1), max(crop.Height(), 1)))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(blankColor), image.Point{}, draw.Src)
	if !f.Usable() {
		return canvas
	}

	overlap := crop.Intersect(f.Rect)
	if overlap.Empty() {
		return canvas
	}
	dst := overlap.Translate(-crop.Left, -crop.Top).Image()
	src := image.Pt(overlap.Left-f.Rect.Left, overlap.Top-f.Rect.Top)
	draw.Draw(canvas, dst, f.Img, src, draw.Src)
	return canvas
}

// DrawSpotlight draws a border of the given thickness around r, growing
// outwards from r's edge. Pixels off the image are skipped.
func DrawSpotlight(img *image.RGBA, r image.Rectangle, thickness int, c color.Color) {
	for i := 0; i < thickness; i++ {
		g := r.Inset(-i)
		drawRectangle(img, g.Min.X, g.Min.Y, g.Max.X, g.Max.Y, c)
	}
}

// drawRectangle draws a one-pixel rectangle outline on the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := max(x1, bounds.Min.X); x < min(x2, bounds.Max.X); x++ {
		if y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.Set(x, y1, c)
		}
		if y2-1 >= bounds.Min.Y && y2-1 < bounds.Max.Y {
			img.Set(x, y2-1, c)
		}
	}
	for y := max(y1, bounds.Min.Y); y < min(y2, bounds.Max.Y); y++ {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X {
			img.Set(x1, y, c)
		}
		if x2-1 >= bounds.Min.X && x2-1 < bounds.Max.X {
			img.Set(x2-1, y, c)
		}
	}
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToRGBA converts any image to an *image.RGBA with its origin at (0,0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
