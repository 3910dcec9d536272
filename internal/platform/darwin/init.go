//go:build darwin && cgo

package darwin

import "github.com/mj1618/stepcast/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Screen:        platform.NewKbinaniScreen(),
			Accessibility: NewAccessibility(),
			Cursor:        NewCursor(),
		}, nil
	}
	platform.RequestPermissionsFunc = CheckPermissions
}
