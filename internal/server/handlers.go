package server

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/output"
	"github.com/mj1618/stepcast/internal/refine"
	"gopkg.in/yaml.v3"
)

const pngMIME = "image/png"

type recordingStatus struct {
	OK        bool `yaml:"ok"`
	Recording bool `yaml:"recording"`
}

type refinedStep struct {
	Description string `yaml:"description"`
	Refined     bool   `yaml:"refined"`
}

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) handleStartRecording(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.ctrl.StartRecording()
	return mcp.NewToolResultText(toText(recordingStatus{OK: true, Recording: s.ctrl.Recording()})), nil
}

func (s *Server) handleStopRecording(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.ctrl.StopRecording()
	return mcp.NewToolResultText(toText(recordingStatus{OK: true, Recording: s.ctrl.Recording()})), nil
}

func (s *Server) handleCapture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.captureMu.Lock()
	rec := s.ctrl.Capture(ctx, x, y)
	s.captureMu.Unlock()

	return recordResult(rec), nil
}

// recordResult renders rec as YAML metadata plus the screenshot, if any.
func recordResult(rec model.CaptureRecord) *mcp.CallToolResult {
	text := toText(output.NewCaptureResult(rec, ""))
	if len(rec.Screenshot) == 0 {
		return mcp.NewToolResultText(text)
	}
	return mcp.NewToolResultImage(text, base64.StdEncoding.EncodeToString(rec.Screenshot), pngMIME)
}

func (s *Server) handleDrainEvents(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	images := request.GetBool("images", false)
	records := s.ctrl.Drain()

	summaries := make([]output.CaptureResult, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, output.NewCaptureResult(rec, ""))
	}
	result := mcp.NewToolResultText(toText(summaries))
	if images {
		for _, rec := range records {
			if len(rec.Screenshot) == 0 {
				continue
			}
			result.Content = append(result.Content, mcp.NewImageContent(base64.StdEncoding.EncodeToString(rec.Screenshot), pngMIME))
		}
	}
	s.log.Debug("drained events", "count", len(records))
	return result, nil
}

func (s *Server) handleProcessStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoded, err := request.RequireString("image_base64")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("image_base64: %v", err)), nil
	}

	step := refine.Step{Screenshot: img, Context: request.GetString("context", "")}
	args := request.GetArguments()
	if _, ok := args["right"]; ok {
		step.BoundingBox = &model.ScreenRect{
			Left:   request.GetInt("left", 0),
			Top:    request.GetInt("top", 0),
			Right:  request.GetInt("right", 0),
			Bottom: request.GetInt("bottom", 0),
		}
	}

	res := s.ctrl.ProcessStep(ctx, step)
	text := toText(refinedStep{Description: res.Description, Refined: res.Refined})
	return mcp.NewToolResultImage(text, base64.StdEncoding.EncodeToString(res.Screenshot), pngMIME), nil
}
