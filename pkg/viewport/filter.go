package viewport

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// DefaultMargin is the screen-space slack around the surface kept when culling.
const DefaultMargin = 100.0

// FilterVisibleNodes keeps the nodes whose circle, scaled by zoom and offset
// by pan, intersects the width×height surface expanded by margin on every
// side. Order is preserved.
func FilterVisibleNodes(nodes []*hierarchy.RenderedNode, width, height, panX, panY, zoom, margin float64) []*hierarchy.RenderedNode {
	out := make([]*hierarchy.RenderedNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		x, y, r := n.X*zoom+panX, n.Y*zoom+panY, n.Radius*zoom
		if x+r < -margin || x-r > width+margin || y+r < -margin || y-r > height+margin {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Visible filters nodes for a width×height surface with DefaultMargin.
func (s State) Visible(nodes []*hierarchy.RenderedNode, width, height float64) []*hierarchy.RenderedNode {
	return FilterVisibleNodes(nodes, width, height, s.PanX, s.PanY, s.Zoom, DefaultMargin)
}

// OptimizeRenderingOrder returns a copy of nodes stably sorted by radius,
// largest first. Nil entries are dropped.
func OptimizeRenderingOrder(nodes []*hierarchy.RenderedNode) []*hierarchy.RenderedNode {
	out := make([]*hierarchy.RenderedNode, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *hierarchy.RenderedNode) int {
		return cmp.Compare(b.Radius, a.Radius)
	})
	return out
}

// ComputeZoomLimits derives zoom limits from a layout: at the minimum the
// whole layout fits a quarter of the surface's short side, at the maximum
// the smallest circle's diameter does. Empty layouts and zero radii yield
// (FallbackMinZoom, FallbackMaxZoom).
func ComputeZoomLimits(nodes []*hierarchy.RenderedNode, width, height float64) (minZoom, maxZoom float64) {
	side := math.Min(width, height)
	if len(nodes) == 0 || !(side > 0) {
		return FallbackMinZoom, FallbackMaxZoom
	}
	box := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	smallest := math.Inf(1)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		box.Min.X, box.Min.Y = math.Min(box.Min.X, n.X-n.Radius), math.Min(box.Min.Y, n.Y-n.Radius)
		box.Max.X, box.Max.Y = math.Max(box.Max.X, n.X+n.Radius), math.Max(box.Max.Y, n.Y+n.Radius)
		smallest = math.Min(smallest, n.Radius)
	}
	extent := math.Max(box.Max.X-box.Min.X, box.Max.Y-box.Min.Y)
	if !(smallest > 0) || !(extent > 0) || math.IsInf(smallest, 1) {
		return FallbackMinZoom, FallbackMaxZoom
	}
	minZoom = side / 4 / extent
	maxZoom = side / 4 / (2 * smallest)
	return minZoom, math.Max(minZoom, maxZoom)
}

// NodeAt returns the smallest node whose circle contains the world point,
// or nil. Among equal radii the later node wins, matching draw order.
func NodeAt(nodes []*hierarchy.RenderedNode, world r2.Vec) *hierarchy.RenderedNode {
	var best *hierarchy.RenderedNode
	for _, n := range nodes {
		if n == nil || r2.Norm(r2.Sub(world, n.Center())) > n.Radius {
			continue
		}
		if best == nil || n.Radius <= best.Radius {
			best = n
		}
	}
	return best
}

// HitTestNodes returns a HitTester backed by NodeAt.
func HitTestNodes(nodes []*hierarchy.RenderedNode) HitTester {
	return func(world r2.Vec) hierarchy.NodeID {
		if n := NodeAt(nodes, world); n != nil {
			return n.Key()
		}
		return ""
	}
}
