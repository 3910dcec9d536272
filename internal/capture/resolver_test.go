package capture

import (
	"testing"

	"github.com/mj1618/stepcast/internal/model"
)

func TestResolver_GeometryGate(t *testing.T) {
	el := &fakeElement{name: "OK", role: "AXButton", rect: model.ScreenRect{Left: 100, Top: 100, Right: 200, Bottom: 150}, hasRect: true}
	r := NewResolver(&fakeAX{atPoint: el}, DefaultOptions(), nil)

	if res := r.Resolve(98, 102, false); res.Outcome != Resolved {
		t.Errorf("(98,102): got %v, want resolved", res.Outcome)
	}
	if res := r.Resolve(90, 102, false); res.Outcome != NotFound {
		t.Errorf("(90,102): got %v, want not_found", res.Outcome)
	}
}

func TestResolver_Resolved(t *testing.T) {
	el := &fakeElement{name: "Save", role: "AXButton", class: "AXButton", rect: model.ScreenRect{Left: 10, Top: 10, Right: 60, Bottom: 30}, hasRect: true}
	r := NewResolver(&fakeAX{atPoint: el}, DefaultOptions(), nil)

	res := r.Resolve(35, 20, false)
	if res.Outcome != Resolved {
		t.Fatalf("got %v, want resolved", res.Outcome)
	}
	if res.Element.Name != "Save" || res.Element.Type != "Button" {
		t.Errorf("element: got %+v", res.Element)
	}
	if *res.Element.Rect != el.rect {
		t.Errorf("rect: got %v, want %v", *res.Element.Rect, el.rect)
	}
}

func TestResolver_BlindWindow(t *testing.T) {
	tests := []struct {
		name  string
		class string
		width int
		want  Outcome
	}{
		{"chrome wide", "Chrome_RenderWidgetHostHWND", 800, BlindWindow},
		{"chrome at threshold", "Chrome_WidgetWin_1", 500, Resolved},
		{"web area wide", "AXWebArea", 1200, BlindWindow},
		{"native wide", "AXGroup", 1200, Resolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &fakeElement{class: tt.class, rect: model.ScreenRect{Left: 0, Top: 0, Right: tt.width, Bottom: 600}, hasRect: true}
			r := NewResolver(&fakeAX{atPoint: el}, DefaultOptions(), nil)
			res := r.Resolve(300, 300, false)
			if res.Outcome != tt.want {
				t.Errorf("got %v, want %v", res.Outcome, tt.want)
			}
			if res.Outcome == BlindWindow && res.Element != nil {
				t.Error("blind window must not carry an element")
			}
		})
	}
}

func TestResolver_GeometryBeforeBlind(t *testing.T) {
	el := &fakeElement{class: "Chrome_WidgetWin_1", rect: model.ScreenRect{Left: 0, Top: 0, Right: 800, Bottom: 600}, hasRect: true}
	r := NewResolver(&fakeAX{atPoint: el}, DefaultOptions(), nil)
	if res := r.Resolve(900, 300, false); res.Outcome != NotFound {
		t.Errorf("got %v, want not_found", res.Outcome)
	}
}

func TestResolver_CustomBlindClasses(t *testing.T) {
	opts := DefaultOptions()
	opts.BlindClasses = []string{"MyCanvas"}
	el := &fakeElement{class: "Chrome_WidgetWin_1", rect: model.ScreenRect{Right: 900, Bottom: 900}, hasRect: true}
	r := NewResolver(&fakeAX{atPoint: el}, opts, nil)
	if res := r.Resolve(10, 10, false); res.Outcome != Resolved {
		t.Errorf("got %v, want resolved", res.Outcome)
	}
}

func TestResolver_Failures(t *testing.T) {
	tests := []struct {
		name string
		ax   *fakeAX
	}{
		{"nothing there", &fakeAX{}},
		{"error", &fakeAX{err: errBoom}},
		{"no rect", &fakeAX{atPoint: &fakeElement{name: "ghost"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.ax, DefaultOptions(), nil)
			if res := r.Resolve(5, 5, false); res.Outcome != NotFound {
				t.Errorf("got %v, want not_found", res.Outcome)
			}
		})
	}

	r := NewResolver(nil, DefaultOptions(), nil)
	if res := r.Resolve(5, 5, false); res.Outcome != NotFound {
		t.Errorf("nil accessibility: got %v", res.Outcome)
	}
}

func TestResolver_FocusedSkipsGates(t *testing.T) {
	focused := &fakeElement{name: "Search", role: "AXTextField", class: "AXWebArea", rect: model.ScreenRect{Left: 0, Top: 0, Right: 1000, Bottom: 40}, hasRect: true}
	r := NewResolver(&fakeAX{focused: focused}, DefaultOptions(), nil)

	res := r.Resolve(0, 0, true)
	if res.Outcome != Resolved {
		t.Fatalf("got %v, want resolved", res.Outcome)
	}
	if res.Element.Type != "Edit" {
		t.Errorf("type: got %q, want Edit", res.Element.Type)
	}

	noRect := &fakeElement{name: "Field", role: "AXTextField"}
	r = NewResolver(&fakeAX{focused: noRect}, DefaultOptions(), nil)
	res = r.Resolve(0, 0, true)
	if res.Outcome != Resolved || res.Element.Rect != nil {
		t.Errorf("got %v rect=%v, want resolved without rect", res.Outcome, res.Element.Rect)
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{NotFound: "not_found", Resolved: "resolved", BlindWindow: "blind_window"} {
		if got := o.String(); got != want {
			t.Errorf("%d: got %q, want %q", o, got, want)
		}
	}
}
