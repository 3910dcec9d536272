//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    char *name;
    char *role;
    int hasFrame;
    double x, y, w, h;
} AXSnapshot;

static char *cf_to_cstr(CFTypeRef v) {
    if (v == NULL || CFGetTypeID(v) != CFStringGetTypeID()) return NULL;
    CFStringRef s = (CFStringRef)v;
    CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(max);
    if (buf == NULL) return NULL;
    if (!CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static char *ax_string_attr(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef v = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &v) != kAXErrorSuccess || v == NULL) return NULL;
    char *out = cf_to_cstr(v);
    CFRelease(v);
    if (out != NULL && out[0] == '\0') {
        free(out);
        return NULL;
    }
    return out;
}

static void ax_fill(AXUIElementRef el, AXSnapshot *snap) {
    memset(snap, 0, sizeof(*snap));
    snap->name = ax_string_attr(el, kAXTitleAttribute);
    if (snap->name == NULL) snap->name = ax_string_attr(el, kAXDescriptionAttribute);
    snap->role = ax_string_attr(el, kAXRoleAttribute);

    CFTypeRef pos = NULL, size = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXPositionAttribute, &pos) == kAXErrorSuccess && pos != NULL &&
        AXUIElementCopyAttributeValue(el, kAXSizeAttribute, &size) == kAXErrorSuccess && size != NULL) {
        CGPoint p;
        CGSize s;
        if (AXValueGetValue((AXValueRef)pos, kAXValueCGPointType, &p) &&
            AXValueGetValue((AXValueRef)size, kAXValueCGSizeType, &s)) {
            snap->hasFrame = 1;
            snap->x = p.x;
            snap->y = p.y;
            snap->w = s.width;
            snap->h = s.height;
        }
    }
    if (pos != NULL) CFRelease(pos);
    if (size != NULL) CFRelease(size);
}

// Returns 0 on success, 1 when nothing is there, -1 on error.
static int ax_element_at(float x, float y, AXSnapshot *snap) {
    AXUIElementRef sys = AXUIElementCreateSystemWide();
    AXUIElementRef el = NULL;
    AXError err = AXUIElementCopyElementAtPosition(sys, x, y, &el);
    CFRelease(sys);
    if (err == kAXErrorNoValue || (err == kAXErrorSuccess && el == NULL)) return 1;
    if (err != kAXErrorSuccess) return -1;
    ax_fill(el, snap);
    CFRelease(el);
    return 0;
}

static int ax_focused(AXSnapshot *snap) {
    AXUIElementRef sys = AXUIElementCreateSystemWide();
    CFTypeRef el = NULL;
    AXError err = AXUIElementCopyAttributeValue(sys, kAXFocusedUIElementAttribute, &el);
    CFRelease(sys);
    if (err == kAXErrorNoValue || (err == kAXErrorSuccess && el == NULL)) return 1;
    if (err != kAXErrorSuccess) return -1;
    ax_fill((AXUIElementRef)el, snap);
    CFRelease(el);
    return 0;
}

static void ax_free(AXSnapshot *snap) {
    free(snap->name);
    free(snap->role);
}
*/
import "C"
import (
	"fmt"
	"math"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
)

// axElement is a copied snapshot of an AXUIElement. The native handle is
// released before it is returned, so it can outlive the query.
type axElement struct {
	name     string
	role     string
	rect     model.ScreenRect
	hasFrame bool
}

func (e *axElement) Name() string        { return e.name }
func (e *axElement) ClassName() string   { return e.role }
func (e *axElement) ControlType() string { return e.role }

func (e *axElement) BoundingRect() (model.ScreenRect, bool) {
	return e.rect, e.hasFrame
}

// DarwinAccessibility implements platform.Accessibility with the AX API.
type DarwinAccessibility struct{}

// NewAccessibility creates a new macOS accessibility backend.
func NewAccessibility() *DarwinAccessibility {
	return &DarwinAccessibility{}
}

// ElementAtPoint returns the deepest element at the given screen point.
func (a *DarwinAccessibility) ElementAtPoint(x, y int) (platform.Element, error) {
	var snap C.AXSnapshot
	rc := C.ax_element_at(C.float(x), C.float(y), &snap)
	return snapshotResult(rc, &snap, "element at point")
}

// FocusedElement returns the element with keyboard focus system-wide.
func (a *DarwinAccessibility) FocusedElement() (platform.Element, error) {
	var snap C.AXSnapshot
	rc := C.ax_focused(&snap)
	return snapshotResult(rc, &snap, "focused element")
}

func snapshotResult(rc C.int, snap *C.AXSnapshot, what string) (platform.Element, error) {
	switch rc {
	case 1:
		return nil, nil
	case 0:
	default:
		return nil, fmt.Errorf("accessibility query for %s failed", what)
	}
	defer C.ax_free(snap)

	el := &axElement{
		name: goStringOrEmpty(snap.name),
		role: goStringOrEmpty(snap.role),
	}
	if snap.hasFrame != 0 {
		left := int(math.Round(float64(snap.x)))
		top := int(math.Round(float64(snap.y)))
		el.rect = model.ScreenRect{
			Left:   left,
			Top:    top,
			Right:  left + int(math.Round(float64(snap.w))),
			Bottom: top + int(math.Round(float64(snap.h))),
		}
		el.hasFrame = !el.rect.Empty()
	}
	return el, nil
}

func goStringOrEmpty(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
