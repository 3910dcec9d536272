package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/stepcast/internal/model"
	"gopkg.in/yaml.v3"
)

func sampleRecord() model.CaptureRecord {
	return model.CaptureRecord{
		ID:          "abc",
		ElementName: "Save",
		Description: "Click 'Save'",
		ElementType: "Button",
		Screenshot:  []byte{1, 2, 3},
		BoundingBox: model.ScreenRect{Left: 150, Top: 150, Right: 200, Bottom: 170},
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, NewCaptureResult(sampleRecord(), "/tmp/step.png")); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	// YAML output should be multi-line
	if strings.Count(output, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded CaptureResult
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Description != "Click 'Save'" || decoded.ScreenshotSize != 3 {
		t.Errorf("got %+v", decoded)
	}
	if decoded.BoundingBox.Right != 200 {
		t.Errorf("bounding box: got %v", decoded.BoundingBox)
	}
}

func TestWriteJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewCaptureResult(sampleRecord(), ""), false); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	// Compact output should be a single line (plus newline from Encode)
	if strings.Count(output, "\n") != 1 {
		t.Errorf("compact JSON should be one line, got:\n%s", output)
	}
	if strings.Contains(output, "screenshot_path") {
		t.Errorf("empty path should be omitted: %s", output)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["element_type"] != "Button" {
		t.Errorf("got %v", decoded)
	}
}

func TestWriteJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, LocateResult{X: 1, Y: 2}, true); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") <= 1 {
		t.Errorf("pretty JSON should be multi-line, got:\n%s", buf.String())
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecord()
	rec.Description = "Type '<b>' into 'A & B'"
	if err := WriteJSON(&buf, NewCaptureResult(rec, ""), false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<b>") || !strings.Contains(buf.String(), "A & B") {
		t.Errorf("HTML should not be escaped: %s", buf.String())
	}
}

func TestFprint_FollowsFormat(t *testing.T) {
	defer func() { OutputFormat = FormatYAML }()

	OutputFormat = FormatJSON
	var buf bytes.Buffer
	if err := Fprint(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != `{"a":1}` {
		t.Errorf("got %q", buf.String())
	}

	OutputFormat = "xml"
	if err := Fprint(&buf, 1); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatYAML, "yaml": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q): got %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("agent"); err == nil {
		t.Error("expected error")
	}
}
