// Package scene renders one frame of a cactus diagram onto a canvas.
//
// A Scene is the snapshot built from one layout pass: the rendered nodes,
// the extra edges drawn between them, the resolved style and the hierarchy
// index. Draw culls to the viewport, paints circles largest first, labels
// those big enough, then routes and strokes the edges. When a node is
// hovered, unrelated nodes and edges are muted and edges that do not concern
// a hovered leaf are hidden.
package scene

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/route"
	"github.com/matzehuels/cactus/pkg/styles"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// Scene holds the per-layout state shared by every frame.
type Scene struct {
	nodes    []*hierarchy.RenderedNode
	edges    []hierarchy.Edge
	style    styles.Style
	index    *hierarchy.Index
	leafRel  map[int]styles.DepthStyle
	maxDepth int
}

// New merges style over the defaults for the nodes' depth range and indexes
// the nodes. The scene keeps references to nodes; they must not be mutated
// while the scene is in use.
func New(nodes []*hierarchy.RenderedNode, edges []hierarchy.Edge, style styles.Style) *Scene {
	maxDepth := 0
	for _, n := range nodes {
		if n != nil {
			maxDepth = max(maxDepth, n.Depth)
		}
	}
	merged := styles.Merge(style, maxDepth)
	return &Scene{
		nodes:    nodes,
		edges:    edges,
		style:    merged,
		index:    hierarchy.Build(nodes, merged),
		leafRel:  merged.LeafRelative(),
		maxDepth: maxDepth,
	}
}

// Index returns the hierarchy index of the scene.
func (s *Scene) Index() *hierarchy.Index { return s.index }

// Style returns the resolved style.
func (s *Scene) Style() styles.Style { return s.style }

// Edges returns the extra edges drawn by the scene.
func (s *Scene) Edges() []hierarchy.Edge { return s.edges }

// ZoomLimits derives zoom limits for a width×height surface.
func (s *Scene) ZoomLimits(width, height float64) (float64, float64) {
	return viewport.ComputeZoomLimits(s.index.Nodes(), width, height)
}

// HitTest returns a hover tester over the scene's nodes.
func (s *Scene) HitTest() viewport.HitTester { return viewport.HitTestNodes(s.index.Nodes()) }

// Route returns the hierarchical route between two nodes, or false if either
// is unknown.
func (s *Scene) Route(from, to hierarchy.NodeID) ([]*hierarchy.RenderedNode, bool) {
	src, ok := s.index.Node(from)
	if !ok {
		return nil, false
	}
	tgt, ok := s.index.Node(to)
	if !ok {
		return nil, false
	}
	return route.BuildHierarchicalPath(src, tgt, s.index, s.index.Paths()), true
}

// Options controls one frame.
type Options struct {
	Width, Height float64
	// Margin is the culling slack in screen units; 0 means viewport.DefaultMargin.
	Margin float64
	// Bundling is the edge bundling strength in [0, 1].
	Bundling float64
	Curve    route.CurveOptions
	// Highlighted nodes are drawn with the highlight style.
	Highlighted map[hierarchy.NodeID]struct{}
	NoLabels    bool
}

// Stats counts what a frame drew.
type Stats struct {
	NodesDrawn int `json:"nodes_drawn"`
	EdgesDrawn int `json:"edges_drawn"`
}

type clearer interface{ Clear(color string) }

// Draw paints one frame for the viewport state vp.
func (s *Scene) Draw(dc canvas.Context, vp viewport.State, opts Options) Stats {
	var stats Stats
	if dc == nil {
		return stats
	}
	if c, ok := dc.(clearer); ok {
		c.Clear(s.style.Background)
	}
	margin := opts.Margin
	if margin == 0 {
		margin = viewport.DefaultMargin
	}

	fc := s.focus(vp.Hovered, opts.Highlighted)
	visible := viewport.FilterVisibleNodes(s.index.Nodes(), opts.Width, opts.Height, vp.PanX, vp.PanY, vp.Zoom, margin)
	ordered := viewport.OptimizeRenderingOrder(visible)

	for _, n := range ordered {
		s.drawNode(dc, n, vp, fc)
		stats.NodesDrawn++
	}
	if !opts.NoLabels {
		for _, n := range ordered {
			s.drawLabel(dc, n, vp, fc)
		}
	}

	screen := make(map[hierarchy.NodeID]r2.Vec, s.index.Len())
	for _, n := range s.index.Nodes() {
		screen[n.Key()] = vp.ToScreen(n.Center())
	}
	bounds := r2.Box{
		Min: r2.Vec{X: -margin, Y: -margin},
		Max: r2.Vec{X: opts.Width + margin, Y: opts.Height + margin},
	}
	ec := &route.EdgeContext{
		Coords:      screen,
		Index:       s.index,
		Style:       s.style,
		Hovered:     vp.Hovered,
		Highlighted: opts.Highlighted,
		Bundling:    opts.Bundling,
		Curve:       opts.Curve,
		Bounds:      &bounds,
	}
	for _, e := range s.edges {
		if route.ShouldFilterEdge(e, vp.Hovered, s.index) {
			continue
		}
		src, ok := s.index.Node(e.Source)
		if !ok {
			continue
		}
		tgt, ok := s.index.Node(e.Target)
		if !ok {
			continue
		}
		ec.Muted = fc.active && !fc.has(e.Source) && !fc.has(e.Target)
		if route.DrawEdge(dc, e, src, tgt, ec) {
			stats.EdgesDrawn++
		}
	}
	return stats
}
