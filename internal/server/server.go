// Package server exposes the recorder as Model Context Protocol tools.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/refine"
	"github.com/mj1618/stepcast/internal/version"
)

// Transports accepted by Serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Controller is the recording state the tools act on.
type Controller interface {
	StartRecording()
	StopRecording()
	Recording() bool
	Capture(ctx context.Context, x, y int) model.CaptureRecord
	Drain() []model.CaptureRecord
	ProcessStep(ctx context.Context, step refine.Step) refine.Result
}

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Addr      string // listen address for streamable-http
}

// Server wraps the MCP server around a Controller.
type Server struct {
	ctrl Controller
	// captureMu serializes tool-initiated captures.
	captureMu sync.Mutex
	log       *slog.Logger
	mcp       *mcpserver.MCPServer
}

// New creates and configures an MCP server with all stepcast tools.
func New(ctrl Controller, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{ctrl: ctrl, log: log}
	s.mcp = mcpserver.NewMCPServer(
		"stepcast",
		version.Version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve runs the configured transport. For streamable-http the server is
// shut down when ctx is done; stdio ends when its input closes.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case "", TransportStdio:
		return mcpserver.ServeStdio(s.mcp)
	case TransportStreamableHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(cfg.Addr) }()
		s.log.Info("mcp server listening", "addr", cfg.Addr, "transport", cfg.Transport)
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use %s or %s)", cfg.Transport, TransportStdio, TransportStreamableHTTP)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("start_recording",
			mcp.WithDescription("Start recording clicks and typing as tutorial steps. Steps queued by a previous recording are discarded."),
		),
		s.handleStartRecording,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop_recording",
			mcp.WithDescription("Stop recording. Text typed since the last Enter, Tab or click is discarded; queued steps stay available to drain_events."),
		),
		s.handleStopRecording,
	)

	s.mcp.AddTool(
		mcp.NewTool("capture",
			mcp.WithDescription("Capture the UI element at a screen coordinate. Returns the annotated screenshot and the step metadata."),
			mcp.WithNumber("x", mcp.Description("Screen X coordinate"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Screen Y coordinate"), mcp.Required()),
		),
		s.handleCapture,
	)

	s.mcp.AddTool(
		mcp.NewTool("drain_events",
			mcp.WithDescription("Return and remove every recorded step waiting in the queue, oldest first"),
			mcp.WithBoolean("images", mcp.Description("Include each step's screenshot as image content")),
		),
		s.handleDrainEvents,
	)

	s.mcp.AddTool(
		mcp.NewTool("process_step",
			mcp.WithDescription("Re-apply the highlight to a step screenshot and replace a generic description with a specific instruction"),
			mcp.WithString("image_base64", mcp.Description("Base64-encoded step screenshot"), mcp.Required()),
			mcp.WithString("context", mcp.Description("Current step description")),
			mcp.WithNumber("left", mcp.Description("Bounding box left, image-relative")),
			mcp.WithNumber("top", mcp.Description("Bounding box top, image-relative")),
			mcp.WithNumber("right", mcp.Description("Bounding box right, image-relative")),
			mcp.WithNumber("bottom", mcp.Description("Bounding box bottom, image-relative")),
		),
		s.handleProcessStep,
	)
}
