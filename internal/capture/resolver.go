package capture

import (
	"log/slog"

	"github.com/mj1618/stepcast/internal/model"
	"github.com/mj1618/stepcast/internal/platform"
)

// Outcome tags the result of element resolution.
type Outcome int

const (
	// NotFound means no usable element; the caller picks a generic rect.
	NotFound Outcome = iota
	// Resolved means Resolution.Element is valid.
	Resolved
	// BlindWindow means an element exists but accessibility cannot see
	// inside it; the caller should locate the target from pixels.
	BlindWindow
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case BlindWindow:
		return "blind_window"
	default:
		return "not_found"
	}
}

// Resolution is the result of Resolver.Resolve. Element is set only when
// Outcome is Resolved.
type Resolution struct {
	Outcome   Outcome
	Element   *model.CapturedElement
	ClassName string // native class of a blind window
}

// Resolver maps a screen point to an accessibility element and validates it.
type Resolver struct {
	ax         platform.Accessibility
	margin     int
	blindWidth int
	blind      map[string]bool
	log        *slog.Logger
}

// NewResolver creates a resolver. ax may be nil, in which case every
// resolution is NotFound.
func NewResolver(ax platform.Accessibility, opts Options, log *slog.Logger) *Resolver {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	blind := make(map[string]bool, len(opts.BlindClasses))
	for _, c := range opts.BlindClasses {
		blind[c] = true
	}
	return &Resolver{
		ax:         ax,
		margin:     opts.GeometryMargin,
		blindWidth: opts.BlindWidth,
		blind:      blind,
		log:        log,
	}
}

// Resolve returns the element at (x, y), or the focused element when
// focused is set. Focused lookups skip both gates since the point carries
// no meaning for them. Accessibility errors count as NotFound.
func (r *Resolver) Resolve(x, y int, focused bool) Resolution {
	if r.ax == nil {
		return Resolution{Outcome: NotFound}
	}

	var (
		el  platform.Element
		err error
	)
	if focused {
		el, err = r.ax.FocusedElement()
	} else {
		el, err = r.ax.ElementAtPoint(x, y)
	}
	if err != nil {
		r.log.Warn("accessibility query failed", "x", x, "y", y, "focused", focused, "err", err)
		return Resolution{Outcome: NotFound}
	}
	if el == nil {
		return Resolution{Outcome: NotFound}
	}

	captured := &model.CapturedElement{
		Name:      el.Name(),
		Type:      model.NormalizeControlType(el.ControlType()),
		ClassName: el.ClassName(),
	}
	rect, ok := el.BoundingRect()
	if ok && !rect.Empty() {
		captured.Rect = &rect
	}
	if focused {
		return Resolution{Outcome: Resolved, Element: captured}
	}

	if captured.Rect == nil || !captured.Rect.ContainsPoint(x, y, r.margin) {
		r.log.Debug("element failed geometry check", "x", x, "y", y, "rect", rect.String(), "class", captured.ClassName)
		return Resolution{Outcome: NotFound}
	}
	if r.blind[captured.ClassName] && captured.Rect.Width() > r.blindWidth {
		r.log.Debug("blind window detected", "class", captured.ClassName, "width", captured.Rect.Width())
		return Resolution{Outcome: BlindWindow, ClassName: captured.ClassName}
	}
	return Resolution{Outcome: Resolved, Element: captured}
}
