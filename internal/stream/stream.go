// Package stream serves the recording control surface over HTTP and
// delivers capture records as server-sent events.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/refine"
)

// DefaultPollInterval is the sleep between empty queue polls.
const DefaultPollInterval = 100 * time.Millisecond

// Controller is the recording state the endpoints act on.
type Controller interface {
	StartRecording()
	StopRecording()
	Recording() bool
	Capture(ctx context.Context, x, y int) model.CaptureRecord
	Next() (model.CaptureRecord, bool)
	ProcessStep(ctx context.Context, step refine.Step) refine.Result
}

// Options configures the handler.
type Options struct {
	PollInterval time.Duration
	Logger       *slog.Logger
}

type handler struct {
	c    Controller
	poll time.Duration
	log  *slog.Logger
}

// NewHandler returns the HTTP API for c.
func NewHandler(c Controller, opts Options) http.Handler {
	h := &handler{c: c, poll: opts.PollInterval, log: opts.Logger}
	if h.poll <= 0 {
		h.poll = DefaultPollInterval
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /start-recording", h.startRecording)
	mux.HandleFunc("POST /stop-recording", h.stopRecording)
	mux.HandleFunc("POST /capture", h.capture)
	mux.HandleFunc("GET /events", h.events)
	mux.HandleFunc("POST /process-step", h.processStep)
	return mux
}

type statusResponse struct {
	Status    string `json:"status"`
	Recording bool   `json:"recording"`
}

type captureRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Recording: h.c.Recording()})
}

func (h *handler) startRecording(w http.ResponseWriter, r *http.Request) {
	h.c.StartRecording()
	h.writeJSON(w, http.StatusOK, statusResponse{Status: "recording", Recording: true})
}

func (h *handler) stopRecording(w http.ResponseWriter, r *http.Request) {
	h.c.StopRecording()
	h.writeJSON(w, http.StatusOK, statusResponse{Status: "stopped", Recording: false})
}

func (h *handler) capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.X == nil || req.Y == nil {
		h.writeError(w, http.StatusBadRequest, errors.New("x and y are required"))
		return
	}
	h.writeJSON(w, http.StatusOK, h.c.Capture(r.Context(), *req.X, *req.Y))
}

func (h *handler) processStep(w http.ResponseWriter, r *http.Request) {
	var step refine.Step
	if err := json.NewDecoder(r.Body).Decode(&step); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if len(step.Screenshot) == 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("image_base64 is required"))
		return
	}
	h.writeJSON(w, http.StatusOK, h.c.ProcessStep(r.Context(), step))
}

// events streams queued records until the client goes away. Each record
// is one "data:" event.
func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	timer := time.NewTimer(0)
	defer timer.Stop()
	h.log.Debug("event stream opened", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("event stream closed", "remote", r.RemoteAddr)
			return
		case <-timer.C:
		}

		delivered := 0
		for {
			rec, ok := h.c.Next()
			if !ok {
				break
			}
			if err := writeEvent(w, rec); err != nil {
				h.log.Warn("event stream write failed", "id", rec.ID, "err", err)
				return
			}
			delivered++
		}
		if delivered > 0 {
			flusher.Flush()
		}
		timer.Reset(h.poll)
	}
}

func writeEvent(w http.ResponseWriter, rec model.CaptureRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("write response", "err", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("http server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
