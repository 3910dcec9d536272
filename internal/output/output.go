// Package output prints command results in the selected format.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/stepcast/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value. Empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
	}
}

// CaptureResult is the output of the `capture` command. The screenshot
// itself is written to a file, not printed.
type CaptureResult struct {
	ID             string           `yaml:"id"                        json:"id"`
	ElementName    string           `yaml:"element_name,omitempty"    json:"element_name,omitempty"`
	ElementType    string           `yaml:"element_type"              json:"element_type"`
	Description    string           `yaml:"description"               json:"description"`
	BoundingBox    model.ScreenRect `yaml:"bounding_box"              json:"bounding_box"`
	ScreenshotPath string           `yaml:"screenshot_path,omitempty" json:"screenshot_path,omitempty"`
	ScreenshotSize int              `yaml:"screenshot_bytes"          json:"screenshot_bytes"`
}

// NewCaptureResult summarizes rec for printing.
func NewCaptureResult(rec model.CaptureRecord, path string) CaptureResult {
	return CaptureResult{
		ID:             rec.ID,
		ElementName:    rec.ElementName,
		ElementType:    rec.ElementType,
		Description:    rec.Description,
		BoundingBox:    rec.BoundingBox,
		ScreenshotPath: path,
		ScreenshotSize: len(rec.Screenshot),
	}
}

// LocateResult is the output of the `locate` command.
type LocateResult struct {
	X           int              `yaml:"x"                json:"x"`
	Y           int              `yaml:"y"                json:"y"`
	Rect        model.ScreenRect `yaml:"rect"             json:"rect"`
	Fallback    bool             `yaml:"fallback"         json:"fallback"`
	Annotated   string           `yaml:"output,omitempty" json:"output,omitempty"`
	ImageWidth  int              `yaml:"image_width"      json:"image_width"`
	ImageHeight int              `yaml:"image_height"     json:"image_height"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v to w as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v to w as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
