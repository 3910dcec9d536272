//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}

static int can_capture_screen() {
    if (@available(macOS 10.15, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    return 1;
}
*/
import "C"

import (
	"fmt"
	"strings"
)

// CheckPermissions reports which macOS privacy permissions are missing.
// Without Accessibility, element names and input hooks are unavailable;
// without Screen Recording, grabs return only the desktop wallpaper.
func CheckPermissions() error {
	var missing []string
	if C.is_trusted() == 0 {
		missing = append(missing, "Accessibility")
	}
	if C.can_capture_screen() == 0 {
		missing = append(missing, "Screen Recording")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing %s permission\n\n"+
		"Grant it at: System Settings > Privacy & Security > %s\n"+
		"Add the terminal app running stepcast, then restart it.",
		strings.Join(missing, " and "), strings.Join(missing, ", "))
}
