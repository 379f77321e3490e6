package viewport

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

func node(id string, x, y, r float64) *hierarchy.RenderedNode {
	return &hierarchy.RenderedNode{ID: hierarchy.NodeID(id), X: x, Y: y, Radius: r}
}

func keys(nodes []*hierarchy.RenderedNode) []hierarchy.NodeID {
	out := make([]hierarchy.NodeID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestFilterVisibleNodes(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{
		node("inside", 50, 50, 5),
		node("margin", -150, 50, 60),
		node("far-left", -500, 50, 10),
		node("far-below", 50, 900, 10),
		node("edge", 210, 50, 15),
	}

	tests := []struct {
		name           string
		panX, panY, zm float64
		margin         float64
		want           []hierarchy.NodeID
	}{
		{"identity", 0, 0, 1, DefaultMargin, []hierarchy.NodeID{"inside", "margin", "edge"}},
		{"no margin", 0, 0, 1, 0, []hierarchy.NodeID{"inside", "edge"}},
		{"panned", 520, 0, 1, 0, []hierarchy.NodeID{"far-left"}},
		{"zoomed out", 0, 0, 0.1, 0, []hierarchy.NodeID{"inside", "far-below", "edge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(FilterVisibleNodes(nodes, 200, 100, tt.panX, tt.panY, tt.zm, tt.margin))
			if !slices.Equal(got, tt.want) {
				t.Errorf("visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptimizeRenderingOrder(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{
		node("a", 0, 0, 1), node("b", 0, 0, 5), node("c", 0, 0, 1), node("d", 0, 0, 9),
	}
	got := OptimizeRenderingOrder(nodes)
	if want := []hierarchy.NodeID{"d", "b", "a", "c"}; !slices.Equal(keys(got), want) {
		t.Errorf("order = %v, want %v", keys(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Radius > got[i-1].Radius {
			t.Errorf("radius increases at %d", i)
		}
	}
	if nodes[0].ID != "a" {
		t.Error("input should not be reordered")
	}
}

func TestOptimizeRenderingOrderSkipsNil(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{node("a", 0, 0, 1), nil, node("b", 0, 0, 3), nil}
	got := OptimizeRenderingOrder(nodes)
	if want := []hierarchy.NodeID{"b", "a"}; !slices.Equal(keys(got), want) {
		t.Errorf("order = %v, want %v", keys(got), want)
	}
	if got := OptimizeRenderingOrder(nil); len(got) != 0 {
		t.Errorf("OptimizeRenderingOrder(nil) = %v, want empty", got)
	}
}

func TestComputeZoomLimits(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{node("root", 0, 0, 100), node("leaf", 50, 0, 5)}
	minZoom, maxZoom := ComputeZoomLimits(nodes, 800, 400)
	if !near(minZoom, 0.5) {
		t.Errorf("min = %v, want 0.5", minZoom)
	}
	if !near(maxZoom, 10) {
		t.Errorf("max = %v, want 10", maxZoom)
	}

	for _, tc := range [][]*hierarchy.RenderedNode{nil, {node("dot", 0, 0, 0)}} {
		if lo, hi := ComputeZoomLimits(tc, 800, 400); lo != FallbackMinZoom || hi != FallbackMaxZoom {
			t.Errorf("fallback = (%v, %v)", lo, hi)
		}
	}
}

func TestNodeAt(t *testing.T) {
	nodes := []*hierarchy.RenderedNode{node("big", 0, 0, 50), node("small", 10, 0, 5)}
	if n := NodeAt(nodes, r2.Vec{X: 12, Y: 1}); n == nil || n.ID != "small" {
		t.Errorf("NodeAt = %v, want small", n)
	}
	if n := NodeAt(nodes, r2.Vec{X: -30, Y: 0}); n == nil || n.ID != "big" {
		t.Errorf("NodeAt = %v, want big", n)
	}
	if n := NodeAt(nodes, r2.Vec{X: 100, Y: 100}); n != nil {
		t.Errorf("NodeAt = %v, want nil", n)
	}
}

func TestWorldBounds(t *testing.T) {
	s := State{PanX: 100, PanY: 0, Zoom: 2}
	b := s.WorldBounds(200, 100, 0)
	if b.Min != (r2.Vec{X: -50, Y: 0}) || b.Max != (r2.Vec{X: 50, Y: 50}) {
		t.Errorf("bounds = %v", b)
	}
}
