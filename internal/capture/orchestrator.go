package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
	"github.com/mj1618/stepcast/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Descriptions and names used when the element is not known by name.
// Refinement looks for BlindDescription and VisualElementName.
const (
	VisualElementName  = "Visual element (Chromium)"
	BlindDescription   = "Click the highlight"
	GenericDescription = "Click here"
	TypingTarget       = "text field"
)

const (
	genericBoxSize   = 50
	originBoxSize    = 100
	outcomeFocusMiss = "focused_missing"
	outcomeRecovered = "recovered"
)

// Orchestrator runs one capture end to end: pre-capture, resolution,
// bounding box selection, composition and description.
type Orchestrator struct {
	capturer *RegionCapturer
	resolver *Resolver
	locator  *Locator
	opts     Options
	log      *slog.Logger
	tracer   trace.Tracer
	metrics  *telemetry.Metrics
	newID    func() string
}

// NewOrchestrator wires the pipeline over p. log and tel may be nil.
func NewOrchestrator(p *platform.Provider, opts Options, log *slog.Logger, tel *telemetry.Telemetry) *Orchestrator {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	if p == nil {
		p = &platform.Provider{}
	}
	capturer := NewRegionCapturer(p.Screen, log)
	o := &Orchestrator{
		capturer: capturer,
		resolver: NewResolver(p.Accessibility, opts, log),
		locator:  NewLocator(capturer, opts, log),
		opts:     opts,
		log:      log,
		tracer:   noop.NewTracerProvider().Tracer(""),
		newID:    uuid.NewString,
	}
	if tel != nil {
		o.tracer = tel.Tracer
		o.metrics = tel.Metrics
	}
	return o
}

// Locator returns the pixel locator used for blind windows.
func (o *Orchestrator) Locator() *Locator { return o.locator }

// Capture builds the record for an interaction at (x, y). When typing is
// set, the focused element is used and text is the typed content.
//
// Expected failures degrade to fallbacks. Anything unexpected is recovered
// and reported as a placeholder record without a screenshot.
func (o *Orchestrator) Capture(ctx context.Context, x, y int, typing bool, text string) (rec model.CaptureRecord) {
	start := time.Now()
	outcome := outcomeRecovered
	ctx, span := o.tracer.Start(ctx, "capture", trace.WithAttributes(
		attribute.Int("capture.x", x),
		attribute.Int("capture.y", y),
		attribute.Bool("capture.typing", typing),
	))
	defer func() {
		if p := recover(); p != nil {
			o.log.Warn("capture recovered from panic", "x", x, "y", y, "panic", p)
			o.metrics.RecordRecovered(ctx)
			span.SetStatus(codes.Error, fmt.Sprint(p))
			rec = model.CaptureRecord{
				ID:          o.newID(),
				Description: describe(typing, text, "", ""),
				ElementType: model.UnknownType,
			}
		}
		span.SetAttributes(attribute.String("capture.outcome", outcome))
		span.End()
		o.metrics.RecordCapture(ctx, outcome, time.Since(start))
	}()

	frame := o.capturer.Capture(model.RectAround(x, y, o.opts.PreCaptureSize, o.opts.PreCaptureSize))
	res := o.resolver.Resolve(x, y, typing)

	var (
		rect   model.ScreenRect
		name   string
		elType = model.UnknownType
		preset string
	)
	switch res.Outcome {
	case Resolved:
		name, elType = res.Element.Name, res.Element.Type
		if res.Element.Rect != nil {
			rect = *res.Element.Rect
		} else {
			rect = fallbackRect(x, y)
		}
	case BlindWindow:
		rect = o.locator.Locate(x, y, frame)
		name, elType, preset = VisualElementName, model.VisualElementType, BlindDescription
		o.log.Debug("blind window located from pixels", "class", res.ClassName, "rect", rect.String())
	default:
		rect = fallbackRect(x, y)
	}
	outcome = res.Outcome.String()
	if typing && res.Outcome == NotFound {
		outcome = outcomeFocusMiss
	}

	crop := rect.Inset(o.opts.Padding)
	if !frame.Usable() {
		o.metrics.RecordFallbackFrame(ctx)
		frame = o.capturer.Capture(crop)
	}
	canvas := ComposePadded(frame, crop)
	relative := rect.Translate(-crop.Left, -crop.Top)
	DrawSpotlight(canvas, relative.Image(), o.opts.BorderThickness, SpotlightColor)

	shot, err := EncodePNG(canvas)
	if err != nil {
		o.log.Warn("encode screenshot", "err", err)
	}

	return model.CaptureRecord{
		ID:          o.newID(),
		ElementName: name,
		Description: describe(typing, text, name, preset),
		Screenshot:  shot,
		BoundingBox: relative,
		ElementType: elType,
	}
}

// fallbackRect is used when no element rect is known. (0,0) is what a
// typing flush reports when the cursor position is unknown.
func fallbackRect(x, y int) model.ScreenRect {
	if x == 0 && y == 0 {
		return model.ScreenRect{Right: originBoxSize, Bottom: originBoxSize}
	}
	return model.RectAround(x, y, genericBoxSize, genericBoxSize)
}

func describe(typing bool, text, name, preset string) string {
	switch {
	case typing:
		target := name
		if target == "" {
			target = TypingTarget
		}
		return fmt.Sprintf("Type '%s' into '%s'", text, target)
	case preset != "":
		return preset
	case name != "":
		return fmt.Sprintf("Click '%s'", name)
	default:
		return GenericDescription
	}
}
