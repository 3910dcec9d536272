//go:build !cgo

package hooks

import (
	"context"
	"log/slog"

	"github.com/mj1618/stepcast/internal/platform"
)

// GlobalSource is unavailable without cgo.
type GlobalSource struct{}

// NewGlobalSource returns a source whose Run always fails.
func NewGlobalSource(tracker *Tracker, log *slog.Logger) *GlobalSource {
	return &GlobalSource{}
}

// Run returns platform.ErrUnsupported.
func (s *GlobalSource) Run(ctx context.Context, h Handler) error {
	return platform.ErrUnsupported
}
