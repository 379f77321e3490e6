package viewport

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

func newTestController(t *testing.T) (*Controller, *int) {
	t.Helper()
	c := NewController(DefaultConfig(), 0.1, 10)
	redraws := 0
	c.OnRedraw = func() { redraws++ }
	return c, &redraws
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPanDelta(t *testing.T) {
	c, redraws := newTestController(t)
	c.PointerDown(10, 10)
	if c.Mode() != Panning || !c.State.Dragging {
		t.Fatalf("mode = %v, dragging = %v", c.Mode(), c.State.Dragging)
	}
	c.PointerMove(15, 7)
	c.PointerMove(20, 27)

	if c.State.PanX != 10 || c.State.PanY != 17 {
		t.Errorf("pan = (%v, %v), want (10, 17)", c.State.PanX, c.State.PanY)
	}
	if *redraws != 2 {
		t.Errorf("redraws = %d, want 2", *redraws)
	}

	c.PointerUp()
	if c.Mode() != Idle || c.State.Dragging {
		t.Error("PointerUp should return to idle")
	}
	c.PointerMove(100, 100)
	if c.State.PanX != 10 {
		t.Error("moving while idle should not pan")
	}
}

func TestPanDisabled(t *testing.T) {
	c, _ := newTestController(t)
	c.Config.Pannable = false
	c.PointerDown(0, 0)
	c.PointerMove(50, 50)
	if c.Mode() != Idle || c.State.Dragging {
		t.Error("pointer down should not capture when not pannable")
	}
	if c.State.PanX != 0 || c.State.PanY != 0 {
		t.Errorf("pan = (%v, %v), want unchanged", c.State.PanX, c.State.PanY)
	}
}

func TestOriginOffset(t *testing.T) {
	c, _ := newTestController(t)
	c.Origin = r2.Vec{X: 100, Y: 50}
	c.PointerMove(110, 70)
	if c.State.LastX != 10 || c.State.LastY != 20 {
		t.Errorf("last = (%v, %v), want surface-relative (10, 20)", c.State.LastX, c.State.LastY)
	}
}

func TestWheelZoomAnchoredAtCursor(t *testing.T) {
	c, redraws := newTestController(t)
	cursor := r2.Vec{X: 200, Y: 150}
	before := c.State.ToWorld(cursor)

	if !c.Wheel(cursor.X, cursor.Y, -100) {
		t.Error("Wheel should consume the event")
	}
	if c.State.Zoom <= 1 {
		t.Errorf("zoom = %v, want > 1", c.State.Zoom)
	}
	if want := math.Exp(0.1); !near(c.State.Zoom, want) {
		t.Errorf("zoom = %v, want %v", c.State.Zoom, want)
	}
	after := c.State.ToScreen(before)
	if !near(after.X, cursor.X) || !near(after.Y, cursor.Y) {
		t.Errorf("world point moved to %v, want %v", after, cursor)
	}
	if *redraws != 1 {
		t.Errorf("redraws = %d, want 1", *redraws)
	}
}

func TestWheelDisabled(t *testing.T) {
	c, redraws := newTestController(t)
	c.Config.Zoomable = false
	if c.Wheel(0, 0, -100) {
		t.Error("Wheel should not consume the event when not zoomable")
	}
	if c.State.Zoom != 1 || *redraws != 0 {
		t.Error("zoom should be unchanged")
	}
}

func TestZoomStaysWithinLimits(t *testing.T) {
	c, _ := newTestController(t)
	deltas := []float64{-1e6, -1e6, 1e6, math.Inf(1), math.Inf(-1), math.NaN(), -500, 500}
	for _, d := range deltas {
		c.Wheel(30, 40, d)
		if z := c.State.Zoom; math.IsNaN(z) || z < 0.1 || z > 10 {
			t.Fatalf("after delta %v zoom = %v, outside limits", d, z)
		}
		if !finite(c.State.PanX) || !finite(c.State.PanY) {
			t.Fatalf("after delta %v pan = (%v, %v)", d, c.State.PanX, c.State.PanY)
		}
	}

	c.TouchStart([]Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 0}})
	c.TouchMove([]Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1e9, Y: 0}})
	if c.State.Zoom != 10 {
		t.Errorf("pinch zoom = %v, want clamped to 10", c.State.Zoom)
	}
}

func TestPinchDoublesZoom(t *testing.T) {
	c, redraws := newTestController(t)
	c.TouchStart([]Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 200, Y: 100}})
	if c.Mode() != Pinching || c.State.LastTouchDistance != 100 {
		t.Fatalf("mode = %v, distance = %v", c.Mode(), c.State.LastTouchDistance)
	}
	if c.State.Dragging {
		t.Error("pinching should not set the drag flag")
	}

	c.TouchMove([]Touch{{ID: 1, X: 50, Y: 100}, {ID: 2, X: 250, Y: 100}})
	if !near(c.State.Zoom, 2) {
		t.Errorf("zoom = %v, want 2", c.State.Zoom)
	}
	if c.State.LastTouchDistance != 200 {
		t.Errorf("LastTouchDistance = %v, want 200", c.State.LastTouchDistance)
	}
	if *redraws != 1 {
		t.Errorf("redraws = %d, want 1", *redraws)
	}
}

func TestPinchTranslateKeepsView(t *testing.T) {
	c, _ := newTestController(t)
	c.TouchStart([]Touch{{ID: 1, X: 100, Y: 100}, {ID: 2, X: 200, Y: 100}})
	c.TouchMove([]Touch{{ID: 1, X: 300, Y: 300}, {ID: 2, X: 400, Y: 300}})
	if !near(c.State.PanX, 0) || !near(c.State.PanY, 0) || !near(c.State.Zoom, 1) {
		t.Errorf("pan = (%v, %v), zoom = %v; want (0, 0), 1", c.State.PanX, c.State.PanY, c.State.Zoom)
	}
	if c.Mode() != Pinching {
		t.Errorf("mode = %v, want pinching", c.Mode())
	}
}

func TestTouchEndTransitions(t *testing.T) {
	c, _ := newTestController(t)
	c.TouchStart([]Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}})

	c.TouchEnd([]Touch{{ID: 2, X: 100, Y: 0}})
	if c.Mode() != Panning || !c.State.Dragging {
		t.Fatalf("one touch left: mode = %v", c.Mode())
	}
	if c.State.LastTouchDistance != 0 {
		t.Error("LastTouchDistance should reset")
	}
	if c.State.LastX != 100 || c.State.LastY != 0 {
		t.Errorf("anchor = (%v, %v), want remaining touch", c.State.LastX, c.State.LastY)
	}

	c.TouchMove([]Touch{{ID: 2, X: 110, Y: 5}})
	if c.State.PanX != 10 || c.State.PanY != 5 {
		t.Errorf("pan = (%v, %v), want (10, 5)", c.State.PanX, c.State.PanY)
	}

	c.TouchEnd(nil)
	if c.Mode() != Idle || c.State.Dragging || c.State.LastTouchDistance != 0 {
		t.Error("no touches left should return to idle")
	}
}

func TestHoverAndLeave(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{
		{ID: "big", X: 0, Y: 0, Radius: 50},
		{ID: "small", X: 10, Y: 0, Radius: 5},
	}
	c, redraws := newTestController(t)
	c.HitTest = HitTestNodes(nodes)

	c.PointerMove(10, 0)
	if c.State.Hovered != "small" {
		t.Errorf("hovered = %q, want small", c.State.Hovered)
	}
	c.PointerMove(11, 0)
	if *redraws != 1 {
		t.Errorf("redraws = %d, want 1 (same hover target)", *redraws)
	}

	c.PointerLeave()
	if c.State.Hovered != "" || *redraws != 2 {
		t.Errorf("leave: hovered = %q, redraws = %d", c.State.Hovered, *redraws)
	}
	c.PointerLeave()
	if *redraws != 2 {
		t.Error("leave without hover should not redraw")
	}
}

func TestSetZoomLimits(t *testing.T) {
	tests := []struct {
		name             string
		min, max         float64
		wantMin, wantMax float64
	}{
		{"valid", 0.5, 4, 0.5, 4},
		{"swapped", 4, 0.5, 0.5, 4},
		{"zero", 0, 0, FallbackMinZoom, FallbackMaxZoom},
		{"nan", math.NaN(), math.Inf(1), FallbackMinZoom, FallbackMaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(tt.min, tt.max)
			if s.MinZoom != tt.wantMin || s.MaxZoom != tt.wantMax {
				t.Errorf("limits = [%v, %v], want [%v, %v]", s.MinZoom, s.MaxZoom, tt.wantMin, tt.wantMax)
			}
			if s.Zoom < s.MinZoom || s.Zoom > s.MaxZoom {
				t.Errorf("zoom = %v outside limits", s.Zoom)
			}
		})
	}
}

func TestNonFiniteInputIgnored(t *testing.T) {
	c, _ := newTestController(t)
	c.PointerDown(0, 0)
	c.PointerMove(math.NaN(), 10)
	c.PointerMove(math.Inf(1), 10)
	if c.State.PanX != 0 || c.State.PanY != 0 {
		t.Errorf("pan = (%v, %v), want unchanged", c.State.PanX, c.State.PanY)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{Idle: "idle", Panning: "panning", Pinching: "pinching"} {
		if m.String() != want {
			t.Errorf("%d.String() = %q, want %q", m, m.String(), want)
		}
	}
}
