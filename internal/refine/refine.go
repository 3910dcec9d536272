// Package refine rewrites generic step descriptions using a vision model.
//
// Steps located from pixels carry a placeholder description. The refiner
// crops the highlighted area, asks a Describer what it shows, and returns
// a short imperative instruction instead.
package refine

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/telemetry"
)

// ErrNoDescriber is returned when refinement needs a model but none is configured.
var ErrNoDescriber = errors.New("no describer configured")

const (
	// FallbackDescription replaces a generic description the model could not improve.
	FallbackDescription = "Click the highlighted element"
	// EmptyDescription is used when a step arrives without any description.
	EmptyDescription = "Action recorded."

	describePrompt = "Identify the interface element in the center. " +
		"Reply with a SHORT IMPERATIVE instruction (e.g. 'Click the Save button')."
	focusedPrefix = "CONTEXT: Focused element. "
)

// genericMarkers identify descriptions produced without element knowledge.
var genericMarkers = []string{
	capture.BlindDescription,
	capture.VisualElementName,
	"Visual element",
}

// Describer answers a prompt about an image.
type Describer interface {
	Describe(ctx context.Context, img []byte, mediaType, prompt string) (string, error)
	Provider() string
	Model() string
}

// Step is a captured step to refine. BoundingBox is relative to Screenshot.
type Step struct {
	Screenshot  []byte            `json:"image_base64"`
	BoundingBox *model.ScreenRect `json:"bounding_box,omitempty"`
	Context     string            `json:"context,omitempty"`
}

// Result is a refined step.
type Result struct {
	Screenshot  []byte `json:"processed_image_base64"`
	Description string `json:"final_description"`
	Refined     bool   `json:"refined"`
}

// Refiner post-processes captured steps. It runs off the hook path, so it
// may block on network calls.
type Refiner struct {
	describer Describer
	thickness int
	log       *slog.Logger
	metrics   *telemetry.Metrics
}

// New creates a refiner. d may be nil, in which case generic steps get
// FallbackDescription.
func New(d Describer, log *slog.Logger, metrics *telemetry.Metrics) *Refiner {
	if log == nil {
		log = slog.Default()
	}
	return &Refiner{
		describer: d,
		thickness: capture.DefaultOptions().BorderThickness,
		log:       log,
		metrics:   metrics,
	}
}

// IsGeneric reports whether desc is a placeholder that refinement should replace.
func IsGeneric(desc string) bool {
	for _, m := range genericMarkers {
		if strings.Contains(desc, m) {
			return true
		}
	}
	return false
}

// Process applies the spotlight to the screenshot and refines a generic
// description. Non-generic descriptions pass through unchanged.
func (r *Refiner) Process(ctx context.Context, step Step) Result {
	res := Result{Screenshot: step.Screenshot, Description: step.Context}

	img, _, err := image.Decode(bytes.NewReader(step.Screenshot))
	if err != nil {
		r.log.Warn("step image undecodable, returned as is", "err", err)
		img = nil
	}
	if img != nil && step.BoundingBox != nil {
		if shot, err := spotlight(img, *step.BoundingBox, r.thickness); err == nil {
			res.Screenshot = shot
		} else {
			r.log.Warn("re-apply spotlight", "err", err)
		}
	}

	switch {
	case step.Context == "":
		res.Description = EmptyDescription
		r.metrics.RecordRefinement(ctx, "passthrough")
	case !IsGeneric(step.Context):
		r.metrics.RecordRefinement(ctx, "passthrough")
	default:
		desc, err := r.describe(ctx, img, step.BoundingBox)
		if err != nil {
			r.log.Warn("refinement failed, using fallback", "err", err)
			res.Description = FallbackDescription
			r.metrics.RecordRefinement(ctx, "fallback")
			break
		}
		r.log.Debug("step refined", "from", step.Context, "to", desc)
		res.Description, res.Refined = desc, true
		r.metrics.RecordRefinement(ctx, "model")
	}
	return res
}

func (r *Refiner) describe(ctx context.Context, img image.Image, box *model.ScreenRect) (string, error) {
	if r.describer == nil {
		return "", ErrNoDescriber
	}
	if img == nil {
		return "", errors.New("no image to describe")
	}

	prompt := describePrompt
	if box != nil {
		if cropped, ok := cropAround(img, *box, cropPadding); ok {
			img = cropped
			prompt = focusedPrefix + prompt
		}
	}
	data, err := encodeJPEG(downscale(img, maxDescribeSide))
	if err != nil {
		return "", err
	}

	out, err := r.describer.Describe(ctx, data, "image/jpeg", prompt)
	if err != nil {
		return "", err
	}
	out = cleanInstruction(out)
	if out == "" {
		return "", errors.New("describer returned an empty answer")
	}
	return out, nil
}

// cleanInstruction trims whitespace and surrounding quotes from a model answer.
func cleanInstruction(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(strings.Trim(s, "\"'`"))
}

func spotlight(img image.Image, box model.ScreenRect, thickness int) ([]byte, error) {
	rgba := capture.ToRGBA(img)
	capture.DrawSpotlight(rgba, box.Image(), thickness, capture.SpotlightColor)
	return capture.EncodePNG(rgba)
}
