package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "stepcast"

// Metrics holds the OTEL instruments for the capture pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Captures        metric.Int64Counter
	Recovered       metric.Int64Counter
	FallbackFrames  metric.Int64Counter
	Enqueued        metric.Int64Counter
	CaptureDuration metric.Float64Histogram
	Refinements     metric.Int64Counter
}

// NewMetrics creates all instruments. Returns no-op instruments when no
// MeterProvider is registered.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Captures, err = meter.Int64Counter("captures.total",
		metric.WithDescription("Captures partitioned by element resolution outcome"))
	if err != nil {
		return nil, err
	}

	m.Recovered, err = meter.Int64Counter("captures.recovered",
		metric.WithDescription("Captures that hit an unexpected fault and returned a placeholder"))
	if err != nil {
		return nil, err
	}

	m.FallbackFrames, err = meter.Int64Counter("captures.fallback_frames",
		metric.WithDescription("Captures whose pre-captured frame was unusable"))
	if err != nil {
		return nil, err
	}

	m.Enqueued, err = meter.Int64Counter("events.enqueued",
		metric.WithDescription("Capture records pushed to the delivery queue"))
	if err != nil {
		return nil, err
	}

	m.CaptureDuration, err = meter.Float64Histogram("capture.duration",
		metric.WithDescription("Wall time of one capture, including screen grab and accessibility queries"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	m.Refinements, err = meter.Int64Counter("refinements.total",
		metric.WithDescription("Step refinements partitioned by result (model, fallback, passthrough)"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCapture records one finished capture.
func (m *Metrics) RecordCapture(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("capture.outcome", outcome))
	m.Captures.Add(ctx, 1, attrs)
	m.CaptureDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// RecordRecovered records a capture that recovered from a panic.
func (m *Metrics) RecordRecovered(ctx context.Context) {
	if m == nil {
		return
	}
	m.Recovered.Add(ctx, 1)
}

// RecordFallbackFrame records a capture that re-grabbed the screen for composition.
func (m *Metrics) RecordFallbackFrame(ctx context.Context) {
	if m == nil {
		return
	}
	m.FallbackFrames.Add(ctx, 1)
}

// RecordEnqueued records a record pushed to the delivery queue.
func (m *Metrics) RecordEnqueued(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.Enqueued.Add(ctx, 1, metric.WithAttributes(attribute.String("event.source", source)))
}

// RecordRefinement records a refinement with the given result.
func (m *Metrics) RecordRefinement(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.Refinements.Add(ctx, 1, metric.WithAttributes(attribute.String("refinement.result", result)))
}
