//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>

static int cg_cursor(double *x, double *y) {
    CGEventRef ev = CGEventCreate(NULL);
    if (ev == NULL) return -1;
    CGPoint p = CGEventGetLocation(ev);
    CFRelease(ev);
    *x = p.x;
    *y = p.y;
    return 0;
}
*/
import "C"
import "fmt"

// DarwinCursor implements platform.Cursor using CoreGraphics.
type DarwinCursor struct{}

// NewCursor creates a new macOS cursor backend.
func NewCursor() *DarwinCursor {
	return &DarwinCursor{}
}

// CursorPosition returns the current pointer location in screen points.
func (c *DarwinCursor) CursorPosition() (int, int, error) {
	var x, y C.double
	if C.cg_cursor(&x, &y) != 0 {
		return 0, 0, fmt.Errorf("failed to read cursor position")
	}
	return int(x), int(y), nil
}
