package capture

import (
	"image"
	"log/slog"

	"github.com/mj1618/stepcast/internal/model"
)

const (
	thresholdBlock      = 11  // adaptive threshold window side
	thresholdC          = 2   // subtracted from the local mean
	minContourArea      = 100 // contours at or below this are noise
	tallContainerHeight = 150 // taller picks are treated as lists
	rowHalfHeight       = 15
	fallbackWidth       = 40
	fallbackHeight      = 20
)

// Locator recovers a bounding rect from pixels when the accessibility
// tree cannot see the target.
type Locator struct {
	capturer   *RegionCapturer
	searchSize int
	log        *slog.Logger
}

// NewLocator creates a locator. capturer is used only when Locate is
// called without a usable frame.
func NewLocator(capturer *RegionCapturer, opts Options, log *slog.Logger) *Locator {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Locator{capturer: capturer, searchSize: opts.SearchSize, log: log}
}

// Locate returns the tightest outer contour around (x, y) in screen
// coordinates. It never fails: when nothing fits, or on any fault, it
// returns a 40x20 rect centered on the point.
func (l *Locator) Locate(x, y int, frame *Frame) (rect model.ScreenRect) {
	fallback := LocateFallback(x, y)
	defer func() {
		if p := recover(); p != nil {
			l.log.Warn("shrink-wrap panicked", "x", x, "y", y, "panic", p)
			rect = fallback
		}
	}()

	if !frame.Usable() && l.capturer != nil {
		frame = l.capturer.Capture(model.RectAround(x, y, l.searchSize, l.searchSize))
	}
	if !frame.Usable() {
		return fallback
	}

	r, ok := ShrinkWrap(frame.Img, image.Pt(x-frame.Rect.Left, y-frame.Rect.Top))
	if !ok {
		l.log.Debug("shrink-wrap found no contour", "x", x, "y", y)
		return fallback
	}
	out := model.RectFromImage(r).Translate(frame.Rect.Left, frame.Rect.Top)
	if out.Empty() {
		return fallback
	}
	return out
}

// LocateFallback is the small box reported when no contour is found at (x, y).
func LocateFallback(x, y int) model.ScreenRect {
	return model.RectAround(x, y, fallbackWidth, fallbackHeight)
}

// ShrinkWrap finds the smallest outer contour of img (by bounding-box area,
// above the noise floor) whose outline contains pt, in image coordinates.
// Picks taller than a list row are cut down to a row around pt.Y.
func ShrinkWrap(img *image.RGBA, pt image.Point) (image.Rectangle, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	local := pt.Sub(b.Min)
	if w == 0 || h == 0 || !local.In(image.Rect(0, 0, w, h)) {
		return image.Rectangle{}, false
	}

	mask := adaptiveThreshold(grayscale(img), w, h, thresholdBlock, thresholdC)
	labels, comps := labelComponents(mask, w, h)
	outer := outerBackground(mask, w, h)

	var (
		best     image.Rectangle
		bestArea int
	)
	for i, c := range comps {
		if !local.In(c.bbox) {
			continue
		}
		if c.first.Y > 0 && !outer[(c.first.Y-1)*w+c.first.X] {
			continue // nested inside another shape's hole
		}
		area := c.bbox.Dx() * c.bbox.Dy()
		if area <= minContourArea || (bestArea > 0 && area >= bestArea) {
			continue
		}
		contour := traceBoundary(labels, w, h, int32(i+1), c.first, 4*c.size+8)
		if !polygonContains(contour, local) {
			continue
		}
		best, bestArea = c.bbox, area
	}
	if bestArea == 0 {
		return image.Rectangle{}, false
	}

	if best.Dy() > tallContainerHeight {
		best.Min.Y = max(best.Min.Y, local.Y-rowHalfHeight)
		best.Max.Y = min(best.Max.Y, local.Y+rowHalfHeight)
	}
	return best.Add(b.Min), true
}

// grayscale returns BT.601 luma, row-major.
func grayscale(img *image.RGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl := int(row[x*4]), int(row[x*4+1]), int(row[x*4+2])
			out[y*w+x] = uint8((299*r + 587*g + 114*bl + 500) / 1000)
		}
	}
	return out
}

// adaptiveThreshold marks a pixel as foreground when it is at least c
// darker than the mean of its block×block neighborhood (clipped at the
// image edge).
func adaptiveThreshold(gray []uint8, w, h, block, c int) []bool {
	// integral image with a zero row and column
	iw := w + 1
	sum := make([]int, iw*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(gray[y*w+x])
			sum[(y+1)*iw+x+1] = sum[y*iw+x+1] + rowSum
		}
	}

	half := block / 2
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-half), min(h, y+half+1)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-half), min(w, x+half+1)
			s := sum[y1*iw+x1] - sum[y0*iw+x1] - sum[y1*iw+x0] + sum[y0*iw+x0]
			n := (x1 - x0) * (y1 - y0)
			mask[y*w+x] = int(gray[y*w+x])*n <= s-c*n
		}
	}
	return mask
}

type component struct {
	first image.Point // raster-order first pixel
	bbox  image.Rectangle
	size  int
}

// labelComponents labels 8-connected foreground regions. Label i+1 belongs
// to comps[i]; 0 is background.
func labelComponents(mask []bool, w, h int) ([]int32, []component) {
	labels := make([]int32, w*h)
	var comps []component
	var stack []int
	for start := range mask {
		if !mask[start] || labels[start] != 0 {
			continue
		}
		id := int32(len(comps) + 1)
		sx, sy := start%w, start/w
		c := component{first: image.Pt(sx, sy), bbox: image.Rect(sx, sy, sx+1, sy+1)}
		labels[start] = id
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			c.size++
			c.bbox = c.bbox.Union(image.Rect(x, y, x+1, y+1))
			for _, d := range moore {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if mask[j] && labels[j] == 0 {
					labels[j] = id
					stack = append(stack, j)
				}
			}
		}
		comps = append(comps, c)
	}
	return labels, comps
}

// outerBackground marks background pixels 4-connected to the image border.
func outerBackground(mask []bool, w, h int) []bool {
	outer := make([]bool, w*h)
	var stack []int
	push := func(i int) {
		if !mask[i] && !outer[i] {
			outer[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(i - 1)
		}
		if x < w-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - w)
		}
		if y < h-1 {
			push(i + w)
		}
	}
	return outer
}

// moore lists the 8 neighbors clockwise starting west.
var moore = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func mooreIndex(d image.Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return 0
}

// traceBoundary walks the outer boundary of component id clockwise from
// its raster-first pixel. The walk ends when it leaves start towards the
// same pixel it first moved to, or after limit steps.
func traceBoundary(labels []int32, w, h int, id int32, start image.Point, limit int) []image.Point {
	member := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == id
	}
	next := func(p image.Point, back int) (image.Point, int, bool) {
		for k := 1; k <= 8; k++ {
			q := p.Add(moore[(back+k)%8])
			if member(q) {
				prev := p.Add(moore[(back+k-1)%8])
				return q, mooreIndex(prev.Sub(q)), true
			}
		}
		return p, back, false
	}

	contour := []image.Point{}
	p, back := start, 0 // west of the raster-first pixel is background
	var second image.Point
	for i := 0; i < limit; i++ {
		q, nb, ok := next(p, back)
		if !ok {
			return []image.Point{start}
		}
		if i == 0 {
			second = q
		} else if p == start && q == second {
			break
		}
		contour = append(contour, p)
		p, back = q, nb
	}
	return contour
}

// polygonContains reports whether pt is inside poly or on its outline.
func polygonContains(poly []image.Point, pt image.Point) bool {
	n := len(poly)
	if n == 0 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if onSegment(a, b, pt) {
			return true
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := float64(b.X-a.X)*float64(pt.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(pt.X) < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, p image.Point) bool {
	if (b.X-a.X)*(p.Y-a.Y)-(b.Y-a.Y)*(p.X-a.X) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
