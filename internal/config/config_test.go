package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STEPCAST_LISTEN", "STEPCAST_POLL_INTERVAL", "STEPCAST_CAPTURE_MONITOR_CACHE_TTL",
		"STEPCAST_REFINE_PROVIDER", "STEPCAST_REFINE_MODEL", "STEPCAST_REFINE_BASE_URL",
		"STEPCAST_REFINE_API_KEY", "STEPCAST_REFINE_MAX_TOKENS", "STEPCAST_LOG_LEVEL",
		"STEPCAST_LOG_FORMAT", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
		"STEPCAST_CAPTURE_PRE_CAPTURE_SIZE", "STEPCAST_CAPTURE_SEARCH_SIZE", "STEPCAST_CAPTURE_PADDING",
		"STEPCAST_CAPTURE_BORDER_THICKNESS", "STEPCAST_CAPTURE_GEOMETRY_MARGIN",
		"STEPCAST_CAPTURE_BLIND_WIDTH", "STEPCAST_CAPTURE_BLIND_CLASSES",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Listen != "127.0.0.1:8000" {
		t.Errorf("Listen: got %q", cfg.Listen)
	}
	if cfg.Capture.PreCaptureSize != 800 || cfg.Capture.SearchSize != 400 || cfg.Capture.Padding != 150 {
		t.Errorf("capture sizes: got %+v", cfg.Capture)
	}
	if cfg.Capture.BorderThickness != 3 || cfg.Capture.GeometryMargin != 5 || cfg.Capture.BlindWidth != 500 {
		t.Errorf("capture thresholds: got %+v", cfg.Capture)
	}
	if len(cfg.Capture.BlindClasses) != 6 {
		t.Errorf("BlindClasses: got %v", cfg.Capture.BlindClasses)
	}
	if cfg.Refine.Provider != "" {
		t.Errorf("refinement should be disabled by default, got %q", cfg.Refine.Provider)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
listen: 0.0.0.0:9000
poll_interval: 250ms
capture:
  padding: 80
  blind_classes: [MyCanvas]
  monitor_cache_ttl: "off"
refine:
  provider: openai
  model: llava
  base_url: http://localhost:11434/v1
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: got %q", cfg.ConfigFile)
	}
	if cfg.Listen != "0.0.0.0:9000" || cfg.PollDuration != 250*time.Millisecond {
		t.Errorf("got listen=%q poll=%v", cfg.Listen, cfg.PollDuration)
	}
	if cfg.Capture.Padding != 80 || cfg.Capture.PreCaptureSize != 800 {
		t.Errorf("capture: got %+v", cfg.Capture)
	}
	if len(cfg.Capture.BlindClasses) != 1 || cfg.Capture.BlindClasses[0] != "MyCanvas" {
		t.Errorf("BlindClasses: got %v", cfg.Capture.BlindClasses)
	}
	if cfg.MonitorCacheTTLDuration != 0 {
		t.Errorf("MonitorCacheTTLDuration: got %v, want 0", cfg.MonitorCacheTTLDuration)
	}
	if cfg.Refine.Provider != "openai" || cfg.Refine.Model != "llava" || cfg.Refine.MaxTokens != 256 {
		t.Errorf("refine: got %+v", cfg.Refine)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log: got %+v", cfg.Log)
	}

	opts := cfg.CaptureOptions()
	if opts.Padding != 80 || opts.BlindClasses[0] != "MyCanvas" {
		t.Errorf("CaptureOptions: got %+v", opts)
	}
}

func TestLoad_EnvWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "listen: 0.0.0.0:9000\ncapture:\n  padding: 80\n")
	t.Setenv("STEPCAST_LISTEN", "127.0.0.1:7777")
	t.Setenv("STEPCAST_CAPTURE_PADDING", "40")
	t.Setenv("STEPCAST_CAPTURE_BLIND_CLASSES", "A, B ,,C")
	t.Setenv("STEPCAST_REFINE_PROVIDER", "anthropic")
	t.Setenv("STEPCAST_REFINE_MODEL", "claude-haiku-4-5")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7777" || cfg.Capture.Padding != 40 {
		t.Errorf("got listen=%q padding=%d", cfg.Listen, cfg.Capture.Padding)
	}
	if got := cfg.Capture.BlindClasses; len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("BlindClasses: got %v", got)
	}
	if cfg.Refine.APIKey != "sk-test" {
		t.Errorf("APIKey fallback: got %q", cfg.Refine.APIKey)
	}
	ro := cfg.RefineOptions()
	if ro.Provider != "anthropic" || ro.Model != "claude-haiku-4-5" || ro.APIKey != "sk-test" || ro.MaxTokens != 256 {
		t.Errorf("RefineOptions: got %+v", ro)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown provider", body: "refine:\n  provider: gemini\n"},
		{name: "zero search size", body: "capture:\n  search_size: -1\n"},
		{name: "negative padding", body: "capture:\n  padding: -5\n"},
		{name: "bad poll interval", body: "poll_interval: soon\n"},
		{name: "bad env int", env: map[string]string{"STEPCAST_CAPTURE_PADDING": "wide"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "capture: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseDurationOrDisable(t *testing.T) {
	for _, s := range []string{"", "0", "off", "disable"} {
		if d, err := parseDurationOrDisable(s); err != nil || d != 0 {
			t.Errorf("%q: got %v, %v", s, d, err)
		}
	}
	if d, err := parseDurationOrDisable("3s"); err != nil || d != 3*time.Second {
		t.Errorf("3s: got %v, %v", d, err)
	}
}
