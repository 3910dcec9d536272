// Package version holds build metadata injected by the linker:
//
//	go build -ldflags "-X github.com/mj1618/stepcast/internal/version.Version=v1.2.3"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
