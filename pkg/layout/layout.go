// Package layout places a hierarchy as a cactus: every node is a circle whose
// radius grows with its subtree weight, and children fan out around their
// parent along an arc.
package layout

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// Options tunes the cactus shape.
type Options struct {
	// Overlap pulls children into their parent: 0 makes circles touch, 1
	// centers them on the parent's rim. Clamped to [0, 1).
	Overlap float64 `toml:"overlap" json:"overlap"`
	// ArcSpan is the angle, in radians, children of one parent spread over.
	ArcSpan float64 `toml:"arc_span" json:"arc_span"`
	// SizeGrowthRate is the exponent mapping subtree weight to radius.
	SizeGrowthRate float64 `toml:"size_growth_rate" json:"size_growth_rate"`
	// Orientation is the direction, in radians, the root's children grow in.
	// Screen y points down, so -π/2 grows upward.
	Orientation float64 `toml:"orientation" json:"orientation"`
}

// DefaultOptions returns touching circles fanned over 5π/4 growing upward.
func DefaultOptions() Options {
	return Options{
		Overlap:        0,
		ArcSpan:        5 * math.Pi / 4,
		SizeGrowthRate: 0.5,
		Orientation:    -math.Pi / 2,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if !(o.ArcSpan > 0) {
		o.ArcSpan = d.ArcSpan
	}
	o.ArcSpan = math.Min(o.ArcSpan, 2*math.Pi)
	if !(o.SizeGrowthRate > 0) {
		o.SizeGrowthRate = d.SizeGrowthRate
	}
	if math.IsNaN(o.Overlap) || o.Overlap < 0 {
		o.Overlap = 0
	}
	o.Overlap = math.Min(o.Overlap, 0.99)
	if math.IsNaN(o.Orientation) || math.IsInf(o.Orientation, 0) {
		o.Orientation = d.Orientation
	}
	return o
}

// rootGap separates the circles of independent roots, in units of the
// largest root radius.
const rootGap = 0.5

type placed struct {
	id       hierarchy.NodeID
	node     *hierarchy.TreeNode
	children []*placed
	weight   float64
	radius   float64
	depth    int
	pos      r2.Vec
	done     bool
}

// Compute lays out nodes inside a width×height surface and multiplies the
// result by zoom. The output has one RenderedNode per distinct input ID, in
// input order, with Node pointing into nodes. Nodes whose parent is missing,
// or who are only reachable through a cycle, become additional roots placed
// side by side. Compute is deterministic.
func Compute(width, height, zoom float64, nodes []hierarchy.TreeNode, opts Options) []hierarchy.RenderedNode {
	if len(nodes) == 0 {
		return []hierarchy.RenderedNode{}
	}
	opts = opts.normalized()
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = 1
	}

	all, order := collect(nodes)
	roots := forest(all, order)
	for _, r := range roots {
		measure(r, opts.SizeGrowthRate)
	}
	placeRoots(roots)
	for _, r := range roots {
		fan(r, opts.Orientation, opts)
	}

	fit(all, order, width, height, zoom)

	out := make([]hierarchy.RenderedNode, 0, len(order))
	for _, id := range order {
		p := all[id]
		out = append(out, hierarchy.RenderedNode{
			ID:     id,
			X:      p.pos.X,
			Y:      p.pos.Y,
			Depth:  p.depth,
			Radius: p.radius,
			Name:   p.node.DisplayName(),
			Node:   p.node,
		})
	}
	return out
}

func collect(nodes []hierarchy.TreeNode) (map[hierarchy.NodeID]*placed, []hierarchy.NodeID) {
	all := make(map[hierarchy.NodeID]*placed, len(nodes))
	order := make([]hierarchy.NodeID, 0, len(nodes))
	for i := range nodes {
		id := nodes[i].ID
		if _, dup := all[id]; dup {
			continue
		}
		all[id] = &placed{id: id, node: &nodes[i]}
		order = append(order, id)
	}
	return all, order
}

// forest links children to parents and returns the roots: declared roots and
// dangling parents first, then one representative per unreachable cycle.
func forest(all map[hierarchy.NodeID]*placed, order []hierarchy.NodeID) []*placed {
	var roots []*placed
	for _, id := range order {
		p := all[id]
		parent, ok := all[p.node.Parent]
		if p.node.Parent == "" || !ok || parent == p {
			roots = append(roots, p)
			continue
		}
		parent.children = append(parent.children, p)
	}

	reached := make(map[hierarchy.NodeID]bool, len(order))
	var mark func(p *placed, depth int)
	mark = func(p *placed, depth int) {
		reached[p.id] = true
		p.depth = depth
		for _, c := range p.children {
			if !reached[c.id] {
				mark(c, depth+1)
			}
		}
	}
	for _, r := range roots {
		mark(r, 0)
	}
	for _, id := range order {
		if reached[id] {
			continue
		}
		p := all[id]
		// Cut the cycle at p: detach it from its parent's children.
		if parent := all[p.node.Parent]; parent != nil {
			parent.children = slices.DeleteFunc(parent.children, func(c *placed) bool { return c == p })
		}
		roots = append(roots, p)
		mark(p, 0)
	}
	return roots
}

// measure sets subtree weights and radii bottom-up.
func measure(p *placed, rate float64) {
	if len(p.children) == 0 {
		p.weight = 1
		if w := p.node.Weight; w != nil && *w > 0 {
			p.weight = *w
		}
	} else {
		p.weight = 0
		for _, c := range p.children {
			measure(c, rate)
			p.weight += c.weight
		}
	}
	p.radius = math.Pow(p.weight, rate)
}

func placeRoots(roots []*placed) {
	var largest float64
	for _, r := range roots {
		largest = math.Max(largest, r.radius)
	}
	x := 0.0
	for i, r := range roots {
		if i > 0 {
			x += roots[i-1].radius + rootGap*largest + r.radius
		}
		r.pos = r2.Vec{X: x}
	}
}

// fan places p's children around it, centered on dir, with angular shares
// proportional to their radii.
func fan(p *placed, dir float64, opts Options) {
	p.done = true
	if len(p.children) == 0 {
		return
	}
	var total float64
	for _, c := range p.children {
		total += c.radius
	}
	span := opts.ArcSpan
	if len(p.children) == 1 {
		span = 0
	}
	angle := dir - span/2
	for _, c := range p.children {
		share := span * c.radius / total
		theta := angle + share/2
		if len(p.children) == 1 {
			theta = dir
		}
		dist := p.radius + c.radius*(1-opts.Overlap)
		c.pos = r2.Add(p.pos, r2.Scale(dist, r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}))
		angle += share
		if !c.done {
			fan(c, theta, opts)
		}
	}
}

// fit scales and centers the layout inside width×height, then applies zoom
// around the surface center.
func fit(all map[hierarchy.NodeID]*placed, order []hierarchy.NodeID, width, height, zoom float64) {
	box := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, id := range order {
		p := all[id]
		box.Min.X, box.Min.Y = math.Min(box.Min.X, p.pos.X-p.radius), math.Min(box.Min.Y, p.pos.Y-p.radius)
		box.Max.X, box.Max.Y = math.Max(box.Max.X, p.pos.X+p.radius), math.Max(box.Max.Y, p.pos.Y+p.radius)
	}
	w, h := box.Max.X-box.Min.X, box.Max.Y-box.Min.Y
	scale := 1.0
	if width > 0 && height > 0 && w > 0 && h > 0 {
		scale = math.Min(width/w, height/h)
	}
	scale *= zoom
	mid := r2.Scale(0.5, r2.Add(box.Min, box.Max))
	center := r2.Vec{X: math.Max(width, 0) / 2, Y: math.Max(height, 0) / 2}
	for _, id := range order {
		p := all[id]
		p.pos = r2.Add(center, r2.Scale(scale, r2.Sub(p.pos, mid)))
		p.radius *= scale
	}
}

// Pointers returns pointers into a slice of rendered nodes, the form the
// index and renderer consume.
func Pointers(nodes []hierarchy.RenderedNode) []*hierarchy.RenderedNode {
	out := make([]*hierarchy.RenderedNode, len(nodes))
	for i := range nodes {
		out[i] = &nodes[i]
	}
	return out
}
