// Package config loads stepcast configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (STEPCAST_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order, unless a path is given:
//  1. .stepcast.yaml in current directory
//  2. ~/.config/stepcast/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/refine"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all stepcast configuration.
type Config struct {
	Listen       string `yaml:"listen"`
	PollInterval string `yaml:"poll_interval"` // Go duration string, e.g. "100ms"

	Capture CaptureConfig `yaml:"capture"`
	Refine  RefineConfig  `yaml:"refine"`
	OTEL    OTELConfig    `yaml:"otel"`
	Log     LogConfig     `yaml:"log"`

	// Parsed durations (not from YAML, set after loading)
	PollDuration            time.Duration `yaml:"-"`
	MonitorCacheTTLDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// CaptureConfig tunes the capture pipeline.
type CaptureConfig struct {
	PreCaptureSize  int      `yaml:"pre_capture_size"`
	SearchSize      int      `yaml:"search_size"`
	Padding         int      `yaml:"padding"`
	BorderThickness int      `yaml:"border_thickness"`
	GeometryMargin  int      `yaml:"geometry_margin"`
	BlindWidth      int      `yaml:"blind_width"`
	BlindClasses    []string `yaml:"blind_classes"`
	MonitorCacheTTL string   `yaml:"monitor_cache_ttl"`
}

// RefineConfig selects the vision model used to refine generic steps.
type RefineConfig struct {
	Provider  string `yaml:"provider"` // "openai", "anthropic" or "" (disabled)
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int64  `yaml:"max_tokens"`
}

// OTELConfig holds the OTLP export settings.
type OTELConfig struct {
	Endpoint string `yaml:"endpoint"`
	Headers  string `yaml:"headers"` // Comma-separated key=value pairs
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	opts := capture.DefaultOptions()
	return &Config{
		Listen:       "127.0.0.1:8000",
		PollInterval: "100ms",
		Capture: CaptureConfig{
			PreCaptureSize:  opts.PreCaptureSize,
			SearchSize:      opts.SearchSize,
			Padding:         opts.Padding,
			BorderThickness: opts.BorderThickness,
			GeometryMargin:  opts.GeometryMargin,
			BlindWidth:      opts.BlindWidth,
			BlindClasses:    append([]string(nil), opts.BlindClasses...),
			MonitorCacheTTL: "2s",
		},
		Refine: RefineConfig{MaxTokens: 256},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from path (or the search locations when path
// is empty) and environment variables. Environment variables always
// override file values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := applyFile(cfg, path, data); err != nil {
			return nil, err
		}
	} else if found, data, err := findConfigFile(); err == nil {
		if err := applyFile(cfg, found, data); err != nil {
			return nil, err
		}
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile decodes data over cfg, so absent keys keep their defaults.
func applyFile(cfg *Config, path string, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".stepcast.yaml"); err == nil {
		return ".stepcast.yaml", data, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "stepcast", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}
	return "", nil, fmt.Errorf("no config file found")
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	str := map[string]*string{
		"STEPCAST_LISTEN":                    &cfg.Listen,
		"STEPCAST_POLL_INTERVAL":             &cfg.PollInterval,
		"STEPCAST_CAPTURE_MONITOR_CACHE_TTL": &cfg.Capture.MonitorCacheTTL,
		"STEPCAST_REFINE_PROVIDER":           &cfg.Refine.Provider,
		"STEPCAST_REFINE_MODEL":              &cfg.Refine.Model,
		"STEPCAST_REFINE_BASE_URL":           &cfg.Refine.BaseURL,
		"STEPCAST_REFINE_API_KEY":            &cfg.Refine.APIKey,
		"STEPCAST_LOG_LEVEL":                 &cfg.Log.Level,
		"STEPCAST_LOG_FORMAT":                &cfg.Log.Format,
		"OTEL_EXPORTER_OTLP_ENDPOINT":        &cfg.OTEL.Endpoint,
		"OTEL_EXPORTER_OTLP_HEADERS":         &cfg.OTEL.Headers,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STEPCAST_CAPTURE_PRE_CAPTURE_SIZE": &cfg.Capture.PreCaptureSize,
		"STEPCAST_CAPTURE_SEARCH_SIZE":      &cfg.Capture.SearchSize,
		"STEPCAST_CAPTURE_PADDING":          &cfg.Capture.Padding,
		"STEPCAST_CAPTURE_BORDER_THICKNESS": &cfg.Capture.BorderThickness,
		"STEPCAST_CAPTURE_GEOMETRY_MARGIN":  &cfg.Capture.GeometryMargin,
		"STEPCAST_CAPTURE_BLIND_WIDTH":      &cfg.Capture.BlindWidth,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
		}
		*dst = n
	}

	if v := os.Getenv("STEPCAST_REFINE_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: STEPCAST_REFINE_MAX_TOKENS=%q is not an integer", ErrInvalid, v)
		}
		cfg.Refine.MaxTokens = n
	}
	if v := os.Getenv("STEPCAST_CAPTURE_BLIND_CLASSES"); v != "" {
		cfg.Capture.BlindClasses = splitList(v)
	}

	// API key fallbacks
	if cfg.Refine.APIKey == "" {
		switch cfg.Refine.Provider {
		case "anthropic":
			cfg.Refine.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.Refine.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// finish parses durations and validates values.
func (c *Config) finish() error {
	var err error
	c.PollDuration, err = time.ParseDuration(c.PollInterval)
	if err != nil || c.PollDuration <= 0 {
		return fmt.Errorf("%w: poll_interval %q must be a positive duration", ErrInvalid, c.PollInterval)
	}
	c.MonitorCacheTTLDuration, err = parseDurationOrDisable(c.Capture.MonitorCacheTTL)
	if err != nil {
		return fmt.Errorf("%w: capture.monitor_cache_ttl %q: %v", ErrInvalid, c.Capture.MonitorCacheTTL, err)
	}

	positive := map[string]int{
		"capture.pre_capture_size": c.Capture.PreCaptureSize,
		"capture.search_size":      c.Capture.SearchSize,
		"capture.border_thickness": c.Capture.BorderThickness,
		"capture.blind_width":      c.Capture.BlindWidth,
	}
	for key, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, key, v)
		}
	}
	if c.Capture.Padding < 0 || c.Capture.GeometryMargin < 0 {
		return fmt.Errorf("%w: capture.padding and capture.geometry_margin must not be negative", ErrInvalid)
	}

	switch c.Refine.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("%w: unknown refine.provider %q", ErrInvalid, c.Refine.Provider)
	}
	if c.Listen == "" {
		return fmt.Errorf("%w: listen must not be empty", ErrInvalid)
	}
	return nil
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
func parseDurationOrDisable(s string) (time.Duration, error) {
	if s == "" || s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// CaptureOptions converts the capture section to pipeline options.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		PreCaptureSize:  c.Capture.PreCaptureSize,
		SearchSize:      c.Capture.SearchSize,
		Padding:         c.Capture.Padding,
		BorderThickness: c.Capture.BorderThickness,
		GeometryMargin:  c.Capture.GeometryMargin,
		BlindWidth:      c.Capture.BlindWidth,
		BlindClasses:    c.Capture.BlindClasses,
	}
}

// RefineOptions converts the refine section to describer settings.
func (c *Config) RefineOptions() refine.Config {
	return refine.Config{
		Provider:  c.Refine.Provider,
		BaseURL:   c.Refine.BaseURL,
		APIKey:    c.Refine.APIKey,
		Model:     c.Refine.Model,
		MaxTokens: c.Refine.MaxTokens,
	}
}
