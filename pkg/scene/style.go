package scene

import (
	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/route"
	"github.com/matzehuels/cactus/pkg/styles"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// focus is the set of nodes kept at full opacity while something is hovered
// or highlighted.
type focus struct {
	active      bool
	hovered     hierarchy.NodeID
	highlighted map[hierarchy.NodeID]struct{}
	related     map[hierarchy.NodeID]struct{}
}

func (f focus) has(id hierarchy.NodeID) bool {
	_, ok := f.related[id]
	return ok
}

func (f focus) lit(id hierarchy.NodeID) bool {
	if id == f.hovered && id != "" {
		return true
	}
	_, ok := f.highlighted[id]
	return ok
}

// focus collects the hovered node, its ancestors and descendants, and the
// partners of edges that concern them. A hovered leaf relates to the
// endpoints of the edges left visible; a hovered interior node to the
// endpoints of edges touching its subtree.
func (s *Scene) focus(hovered hierarchy.NodeID, highlighted map[hierarchy.NodeID]struct{}) focus {
	f := focus{hovered: hovered, highlighted: highlighted}
	if hovered == "" {
		return f
	}
	if _, ok := s.index.Node(hovered); !ok {
		return f
	}
	f.active = true

	subtree := map[hierarchy.NodeID]struct{}{hovered: {}}
	queue := []hierarchy.NodeID{hovered}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range s.index.Children(id) {
			if _, seen := subtree[c.Key()]; seen {
				continue
			}
			subtree[c.Key()] = struct{}{}
			queue = append(queue, c.Key())
		}
	}

	if s.index.HasChildren(hovered) {
		f.related = make(map[hierarchy.NodeID]struct{}, len(subtree))
		for _, e := range s.edges {
			_, src := subtree[e.Source]
			_, tgt := subtree[e.Target]
			if src || tgt {
				f.related[e.Source] = struct{}{}
				f.related[e.Target] = struct{}{}
			}
		}
	} else {
		f.related = route.ComputeVisibleEdgeNodeIDs(s.edges, nil, hovered, s.index)
	}
	for id := range subtree {
		f.related[id] = struct{}{}
	}
	for id := range highlighted {
		f.related[id] = struct{}{}
	}
	cur := hovered
	for range s.index.Len() {
		p, ok := s.index.Parent(cur)
		if !ok {
			break
		}
		cur = p.Key()
		f.related[cur] = struct{}{}
	}
	return f
}

// layers returns the depth entry and the leaf-relative entry for a node.
func (s *Scene) layers(n *hierarchy.RenderedNode) []styles.DepthStyle {
	var out []styles.DepthStyle
	if ds, ok := s.index.DepthStyle(n.Depth); ok {
		out = append(out, ds)
	}
	if g, ok := s.index.Generation(n.Key()); ok {
		if ds, ok := s.leafRel[g]; ok {
			out = append(out, ds)
		}
	}
	return out
}

// NodeStyle resolves the circle style of a node: base, depth, leaf-relative
// level, then highlight.
func (s *Scene) NodeStyle(n *hierarchy.RenderedNode, highlighted bool) styles.NodeStyle {
	ns := s.style.Node
	for _, ds := range s.layers(n) {
		ns = ns.Apply(ds.Node)
	}
	if highlighted {
		ns = ns.Apply(s.style.Highlight.Node)
	}
	return ns
}

// LabelStyle resolves the label style of a node: base, depth, leaf-relative
// level, the node's own override, then highlight.
func (s *Scene) LabelStyle(n *hierarchy.RenderedNode, highlighted bool) styles.LabelStyle {
	ls := s.style.Label
	for _, ds := range s.layers(n) {
		ls = ls.Apply(ds.Label)
	}
	if n.Node != nil && n.Node.Label != nil {
		ls = ls.Apply(*n.Node.Label)
	}
	if highlighted {
		ls = ls.Apply(s.style.Highlight.Label)
	}
	return ls
}

func (s *Scene) alpha(base float64, id hierarchy.NodeID, f focus) float64 {
	if f.active && !f.has(id) {
		return base * s.style.Mute()
	}
	return base
}

func (s *Scene) drawNode(dc canvas.Context, n *hierarchy.RenderedNode, vp viewport.State, f focus) {
	id := n.Key()
	ns := s.NodeStyle(n, f.lit(id))
	c := vp.ToScreen(n.Center())

	dc.Save()
	defer dc.Restore()
	dc.SetGlobalAlpha(s.alpha(ns.Alpha(), id, f))
	dc.BeginPath()
	dc.Arc(c.X, c.Y, n.Radius*vp.Zoom)
	if ns.Fill != "" {
		dc.SetFillStyle(ns.Fill)
		dc.Fill()
	}
	if ns.Stroke != "" && ns.LineWidth() > 0 {
		dc.SetStrokeStyle(ns.Stroke)
		dc.SetLineWidth(ns.LineWidth())
		dc.Stroke()
	}
}

func (s *Scene) drawLabel(dc canvas.Context, n *hierarchy.RenderedNode, vp viewport.State, f focus) {
	id := n.Key()
	ls := s.LabelStyle(n, f.lit(id))
	if !ls.Visible(n.Radius * vp.Zoom) {
		return
	}
	name := n.Name
	if name == "" && n.Node != nil {
		name = n.Node.DisplayName()
	}
	if name == "" {
		name = string(id)
	}
	c := vp.ToScreen(n.Center())

	dc.Save()
	defer dc.Restore()
	dc.SetGlobalAlpha(s.alpha(1, id, f))
	dc.SetFillStyle(ls.Color)
	dc.SetFontSize(ls.Size())
	dc.FillText(name, c.X, c.Y)
}
