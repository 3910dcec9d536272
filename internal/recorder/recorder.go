// Package recorder owns the process-wide recording state: one session,
// one delivery queue and the capture pipeline they share.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/hooks"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
	"github.com/mj1618/stepcast/internal/queue"
	"github.com/mj1618/stepcast/internal/refine"
	"github.com/mj1618/stepcast/internal/session"
	"github.com/mj1618/stepcast/internal/telemetry"
)

// Options configures a Recorder. Provider is required.
type Options struct {
	Provider        *platform.Provider
	Capture         capture.Options
	MonitorCacheTTL time.Duration
	Describer       refine.Describer // nil disables model refinement
	Telemetry       *telemetry.Telemetry
	Logger          *slog.Logger
	// Source feeds input events. Nil uses the global OS hooks.
	Source hooks.Source
}

// Recorder bundles the session, the queue and the orchestrator.
type Recorder struct {
	provider *platform.Provider
	orch     *capture.Orchestrator
	events   *queue.Queue[model.CaptureRecord]
	session  *session.Session
	tracker  *hooks.Tracker
	source   hooks.Source
	refiner  *refine.Refiner
	log      *slog.Logger
}

// New wires a stopped recorder.
func New(opts Options) (*Recorder, error) {
	if opts.Provider == nil {
		return nil, errors.New("recorder: provider is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var metrics *telemetry.Metrics
	if opts.Telemetry != nil {
		metrics = opts.Telemetry.Metrics
	}

	p := *opts.Provider
	if p.Screen != nil {
		p.Screen = platform.NewCachedScreen(p.Screen, opts.MonitorCacheTTL)
	}

	tracker := &hooks.Tracker{}
	var cursor platform.Cursor = tracker
	if p.Cursor != nil {
		cursor = p.Cursor
	}

	source := opts.Source
	if source == nil {
		source = hooks.NewGlobalSource(tracker, log.With("component", "hooks"))
	}

	r := &Recorder{
		provider: &p,
		orch:     capture.NewOrchestrator(&p, opts.Capture, log.With("component", "capture"), opts.Telemetry),
		events:   queue.New[model.CaptureRecord](),
		tracker:  tracker,
		source:   source,
		refiner:  refine.New(opts.Describer, log.With("component", "refine"), metrics),
		log:      log,
	}

	s, err := session.New(session.Options{
		Capturer: r.orch,
		Sink:     r.events,
		Cursor:   cursor,
		Logger:   log.With("component", "session"),
		Metrics:  metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	r.session = s
	return r, nil
}

// StartRecording enables event capture. Records left in the queue from a
// previous run are dropped.
func (r *Recorder) StartRecording() {
	if dropped := len(r.events.Drain()); dropped > 0 {
		r.log.Debug("dropped stale records", "count", dropped)
	}
	r.session.Start()
}

// StopRecording disables event capture. Queued records stay available.
func (r *Recorder) StopRecording() {
	r.session.Stop()
	r.log.Debug("records awaiting delivery", "pending", r.events.Len())
}

// Recording reports whether the session is recording.
func (r *Recorder) Recording() bool {
	return r.session.Active()
}

// Capture runs one capture at (x, y) without touching the session or queue.
func (r *Recorder) Capture(ctx context.Context, x, y int) model.CaptureRecord {
	return r.orch.Capture(ctx, x, y, false, "")
}

// Next pops the oldest queued record without waiting.
func (r *Recorder) Next() (model.CaptureRecord, bool) {
	return r.events.TryPop()
}

// Drain pops every queued record.
func (r *Recorder) Drain() []model.CaptureRecord {
	return r.events.Drain()
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	return r.events.Len()
}

// ProcessStep refines a captured step.
func (r *Recorder) ProcessStep(ctx context.Context, step refine.Step) refine.Result {
	return r.refiner.Process(ctx, step)
}

// RunHooks feeds input events to the session until ctx is done.
func (r *Recorder) RunHooks(ctx context.Context) error {
	r.log.Debug("input hooks starting")
	err := r.source.Run(ctx, r.session)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("input hooks: %w", err)
	}
	return nil
}
