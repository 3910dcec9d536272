// Package capture turns one interaction point into an annotated capture
// record: region grabs, accessibility resolution, pixel shrink-wrap and
// spotlight composition.
package capture

// Options tunes the capture pipeline. Zero fields fall back to defaults.
type Options struct {
	PreCaptureSize  int      // side of the square grabbed before any other work
	SearchSize      int      // side of the square grabbed by the locator when no frame is supplied
	Padding         int      // margin around the chosen rect in the output screenshot
	BorderThickness int      // spotlight border width
	GeometryMargin  int      // slack for the element-contains-point check
	BlindWidth      int      // opaque containers wider than this are treated as blind
	BlindClasses    []string // native classes whose content accessibility cannot see
}

// DefaultBlindClasses lists browser-engine host classes, plus the macOS role
// reported for Chromium and Electron web content.
var DefaultBlindClasses = []string{
	"Chrome_RenderWidgetHostHWND",
	"Chrome_WidgetWin_0",
	"Chrome_WidgetWin_1",
	"Intermediate D3D Window",
	"Chrome Legacy Window",
	"AXWebArea",
}

// DefaultOptions returns the stock pipeline settings.
func DefaultOptions() Options {
	return Options{
		PreCaptureSize:  800,
		SearchSize:      400,
		Padding:         150,
		BorderThickness: 3,
		GeometryMargin:  5,
		BlindWidth:      500,
		BlindClasses:    DefaultBlindClasses,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PreCaptureSize <= 0 {
		o.PreCaptureSize = d.PreCaptureSize
	}
	if o.SearchSize <= 0 {
		o.SearchSize = d.SearchSize
	}
	if o.Padding < 0 {
		o.Padding = d.Padding
	}
	if o.BorderThickness <= 0 {
		o.BorderThickness = d.BorderThickness
	}
	if o.GeometryMargin < 0 {
		o.GeometryMargin = d.GeometryMargin
	}
	if o.BlindWidth <= 0 {
		o.BlindWidth = d.BlindWidth
	}
	if o.BlindClasses == nil {
		o.BlindClasses = d.BlindClasses
	}
	return o
}
