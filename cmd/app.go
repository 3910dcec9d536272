package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/stepcast/internal/platform"
	"github.com/mj1618/stepcast/internal/recorder"
	"github.com/mj1618/stepcast/internal/refine"
	"github.com/mj1618/stepcast/internal/telemetry"
	"github.com/mj1618/stepcast/internal/version"
)

// newRecorder builds the platform provider, telemetry and recorder from the
// loaded config. Call the returned cleanup when done.
func newRecorder(ctx context.Context) (*recorder.Recorder, func(), error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	if provider.Accessibility == nil {
		logger.Warn("accessibility unavailable; element names fall back to pixel heuristics")
	}

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: appConfig.OTEL.Endpoint,
		Headers:  appConfig.OTEL.Headers,
		Version:  version.Version,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: %w", err)
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tel.Shutdown(shutdownCtx)
	}

	describer, err := refine.NewDescriber(appConfig.RefineOptions())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if describer != nil {
		logger.Info("step refinement enabled", "provider", describer.Provider(), "model", describer.Model())
	}

	rec, err := recorder.New(recorder.Options{
		Provider:        provider,
		Capture:         appConfig.CaptureOptions(),
		MonitorCacheTTL: appConfig.MonitorCacheTTLDuration,
		Describer:       describer,
		Telemetry:       tel,
		Logger:          logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return rec, cleanup, nil
}

// checkPermissions logs a warning when OS permissions are missing.
// Captures still run and degrade to fallbacks.
func checkPermissions() {
	if platform.RequestPermissionsFunc == nil {
		return
	}
	if err := platform.RequestPermissionsFunc(); err != nil {
		logger.Warn("missing OS permission; captures will use fallbacks", "err", err)
	}
}

// runHooks feeds global input to rec until ctx is done. A failure leaves
// manual captures working.
func runHooks(ctx context.Context, rec *recorder.Recorder) {
	go func() {
		if err := rec.RunHooks(ctx); err != nil {
			logger.Warn("input hooks unavailable; only manual captures will be recorded", "err", err)
		}
	}()
}
