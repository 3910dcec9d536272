// Package session owns the recording state machine and the typing buffer
// that turns keystrokes into typed-text steps.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
	"github.com/mj1618/stepcast/internal/telemetry"
)

// State is the recording state.
type State int

const (
	Stopped State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "stopped"
}

// Capturer produces a record for an interaction at (x, y).
type Capturer interface {
	Capture(ctx context.Context, x, y int, typing bool, text string) model.CaptureRecord
}

// Sink receives finished records in event order.
type Sink interface {
	Push(model.CaptureRecord)
}

// Options configures a Session. Capturer and Sink are required.
type Options struct {
	Capturer Capturer
	Sink     Sink
	Cursor   platform.Cursor // position used for typing flushes; may be nil
	Logger   *slog.Logger
	Metrics  *telemetry.Metrics
	Clock    func() time.Time
}

// Session aggregates hook events into capture records.
//
// Handlers run synchronously on the hook goroutine, so a capture observes
// the UI as it was when the event fired.
type Session struct {
	capturer Capturer
	sink     Sink
	cursor   platform.Cursor
	log      *slog.Logger
	metrics  *telemetry.Metrics
	clock    func() time.Time

	mu          sync.Mutex // guards state, buffer and lastTypedAt
	state       State
	buffer      []rune
	lastTypedAt time.Time
}

// New creates a stopped session.
func New(opts Options) (*Session, error) {
	if opts.Capturer == nil {
		return nil, fmt.Errorf("session: capturer is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("session: sink is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		capturer: opts.Capturer,
		sink:     opts.Sink,
		cursor:   opts.Cursor,
		log:      log,
		metrics:  opts.Metrics,
		clock:    clock,
	}, nil
}

// Start begins recording with an empty typing buffer.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Recording
	s.buffer = s.buffer[:0]
	s.log.Info("recording started")
}

// Stop ends recording. Text typed since the last flush is dropped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.buffer); n > 0 {
		s.log.Debug("discarding unflushed typing", "chars", n)
	}
	s.state = Stopped
	s.buffer = s.buffer[:0]
	s.log.Info("recording stopped")
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether the session is recording.
func (s *Session) Active() bool {
	return s.State() == Recording
}

// Buffer returns the pending typed text.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.buffer)
}

// LastTypedAt returns when a character was last appended.
func (s *Session) LastTypedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTypedAt
}

// HandleMouse flushes pending typing, then captures a left-button press.
// Other buttons are ignored.
func (s *Session) HandleMouse(ctx context.Context, ev platform.MouseEvent) {
	defer s.recoverHandler("mouse")
	if ev.Button != platform.MouseLeft || !s.Active() {
		return
	}
	s.Flush(ctx)
	s.emit(ctx, s.capturer.Capture(ctx, ev.X, ev.Y, false, ""), "click")
}

// HandleKey updates the typing buffer. Enter and Tab flush it.
func (s *Session) HandleKey(ctx context.Context, ev platform.KeyEvent) {
	defer s.recoverHandler("key")
	if !s.Active() {
		return
	}
	switch ev.Kind {
	case platform.KeyEnter, platform.KeyTab:
		s.Flush(ctx)
	case platform.KeyBackspace:
		s.mu.Lock()
		if n := len(s.buffer); n > 0 {
			s.buffer = s.buffer[:n-1]
		}
		s.mu.Unlock()
	case platform.KeyChar:
		s.mu.Lock()
		s.buffer = append(s.buffer, ev.Char)
		s.lastTypedAt = s.clock()
		s.mu.Unlock()
	}
}

// Flush captures the pending typed text as one step at the cursor
// position. It reports whether a capture happened; an empty buffer is a
// no-op.
func (s *Session) Flush(ctx context.Context) bool {
	s.mu.Lock()
	text := string(s.buffer)
	s.buffer = s.buffer[:0]
	s.mu.Unlock()
	if text == "" {
		return false
	}

	x, y := s.cursorPosition()
	s.emit(ctx, s.capturer.Capture(ctx, x, y, true, text), "typing")
	return true
}

func (s *Session) cursorPosition() (int, int) {
	if s.cursor == nil {
		return 0, 0
	}
	x, y, err := s.cursor.CursorPosition()
	if err != nil {
		s.log.Warn("cursor position unavailable", "err", err)
		return 0, 0
	}
	return x, y
}

func (s *Session) emit(ctx context.Context, rec model.CaptureRecord, source string) {
	s.sink.Push(rec)
	s.metrics.RecordEnqueued(ctx, source)
	s.log.Debug("step enqueued", "id", rec.ID, "source", source, "description", rec.Description)
}

// recoverHandler keeps a fault in one event from stopping the hook loop.
func (s *Session) recoverHandler(kind string) {
	if p := recover(); p != nil {
		s.log.Error("hook handler panicked", "event", kind, "panic", p)
	}
}
