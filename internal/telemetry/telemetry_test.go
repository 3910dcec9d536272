package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders("Authorization=Basic abc, x-team = desk ,broken,=nokey")
	if len(got) != 2 {
		t.Fatalf("got %d headers, want 2: %v", len(got), got)
	}
	if got["Authorization"] != "Basic abc" {
		t.Errorf("Authorization: got %q", got["Authorization"])
	}
	if got["x-team"] != "desk" {
		t.Errorf("x-team: got %q", got["x-team"])
	}
}

func TestInit_NoEndpointIsNoop(t *testing.T) {
	tel, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tel.Shutdown(context.Background())

	if tel.Tracer == nil {
		t.Error("tracer should be set")
	}
	if tel.Metrics == nil {
		t.Fatal("metrics should be set")
	}
	// Must not panic on the no-op provider.
	tel.Metrics.RecordCapture(context.Background(), "resolved", 12*time.Millisecond)
	tel.Metrics.RecordEnqueued(context.Background(), "click")
}

func TestInit_InvalidEndpoint(t *testing.T) {
	if _, err := Init(context.Background(), Config{Endpoint: "://bad"}); err == nil {
		t.Error("expected error for invalid endpoint")
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordCapture(ctx, "not_found", time.Millisecond)
	m.RecordRecovered(ctx)
	m.RecordFallbackFrame(ctx)
	m.RecordEnqueued(ctx, "typing")
	m.RecordRefinement(ctx, "model")
}
