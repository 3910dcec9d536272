package cmd

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// basicfont.Face7x13 glyph cell
const (
	glyphWidth  = 7
	glyphHeight = 13
)

// locateImage runs the shrink-wrap locator on img. origin is the screen
// position of img's top-left pixel; x and y are screen coordinates.
// Without a contour the locator's fallback box is returned.
func locateImage(img image.Image, origin image.Point, x, y int) (model.ScreenRect, bool) {
	r, ok := capture.ShrinkWrap(capture.ToRGBA(img), image.Pt(x-origin.X, y-origin.Y))
	if !ok {
		return capture.LocateFallback(x, y), false
	}
	return model.RectFromImage(r).Translate(origin.X, origin.Y), true
}

// annotateLocate draws the spotlight around rect (image-relative) and a
// label with its screen geometry above it.
func annotateLocate(img image.Image, rect image.Rectangle, label string, thickness int) *image.RGBA {
	rgba := capture.ToRGBA(img)
	capture.DrawSpotlight(rgba, rect, thickness, capture.SpotlightColor)

	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255} // White
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}    // Black

	// Above the box, or inside its top edge when there is no room.
	y := rect.Min.Y - thickness - glyphHeight/2 - 2
	if y-glyphHeight/2 < rgba.Bounds().Min.Y {
		y = rect.Min.Y + glyphHeight
	}
	drawTextWithOutline(rgba, label, (rect.Min.X+rect.Max.X)/2, y, textColor, outlineColor)
	return rgba
}

func locateLabel(r model.ScreenRect) string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.Left, r.Top, r.Width(), r.Height())
}

// drawTextWithOutline draws text centered on (x, y) with a one-pixel outline
// for visibility on any background.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	textWidth := len(text) * glyphWidth

	offsetX := x - textWidth/2
	// Dot is the baseline, which sits near the bottom of the glyph cell.
	offsetY := y + glyphHeight/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot:  fixed.P(offsetX+dx, offsetY+dy),
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(offsetX, offsetY),
	}
	d.DrawString(text)
}
