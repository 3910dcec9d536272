package refine

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/mj1618/stepcast/internal/model"
	"golang.org/x/image/draw"
)

const (
	cropPadding     = 20
	minCropSide     = 10
	maxDescribeSide = 768
	jpegQuality     = 90
)

// cropAround returns box grown by pad and clipped to img. ok is false when
// the result is 10px or less on either side.
func cropAround(img image.Image, box model.ScreenRect, pad int) (image.Image, bool) {
	b := img.Bounds()
	r := box.Inset(pad).Image().Add(b.Min).Intersect(b)
	if r.Dx() <= minCropSide || r.Dy() <= minCropSide {
		return nil, false
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, true
}

// downscale shrinks img so its longest side is at most maxSide.
func downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
