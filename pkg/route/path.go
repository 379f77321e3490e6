package route

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// BuildHierarchicalPath returns the route from src to tgt through their
// nearest common ancestor: src, its ancestors below the ancestor, the
// ancestor, then the target's ancestors down to tgt. When one endpoint is an
// ancestor of the other the route is the chain between them.
//
// Results are memoized in cache under the ordered pair (src, tgt). Ancestor
// walks stop after ix.Len() steps; if no common ancestor is found the route
// is the direct pair [src, tgt].
func BuildHierarchicalPath(src, tgt *hierarchy.RenderedNode, ix *hierarchy.Index, cache *hierarchy.PathCache) []*hierarchy.RenderedNode {
	if src == nil || tgt == nil {
		return nil
	}
	from, to := src.Key(), tgt.Key()
	if p, ok := cache.Get(from, to); ok {
		return p
	}
	path := hierarchicalPath(src, tgt, ix)
	cache.Put(from, to, path)
	return path
}

func hierarchicalPath(src, tgt *hierarchy.RenderedNode, ix *hierarchy.Index) []*hierarchy.RenderedNode {
	direct := []*hierarchy.RenderedNode{src, tgt}
	if ix == nil {
		return direct
	}
	up := ancestors(src, ix)
	pos := make(map[hierarchy.NodeID]int, len(up))
	for i, n := range up {
		if _, seen := pos[n.Key()]; !seen {
			pos[n.Key()] = i
		}
	}

	down := ancestors(tgt, ix)
	for j, n := range down {
		i, ok := pos[n.Key()]
		if !ok {
			continue
		}
		path := make([]*hierarchy.RenderedNode, 0, i+j+1)
		path = append(path, up[:i+1]...)
		for k := j - 1; k >= 0; k-- {
			path = append(path, down[k])
		}
		return path
	}
	return direct
}

// ancestors returns n followed by its parent chain, at most ix.Len()+1 long.
func ancestors(n *hierarchy.RenderedNode, ix *hierarchy.Index) []*hierarchy.RenderedNode {
	chain := []*hierarchy.RenderedNode{n}
	for cur := n; len(chain) <= ix.Len(); {
		p, ok := ix.Parent(cur.Key())
		if !ok {
			break
		}
		chain = append(chain, p)
		cur = p
	}
	return chain
}

// PathToCoordinates maps a route to drawable points. An empty route yields
// [srcPt, tgtPt]. A route element missing from coords takes the coordinate of
// its nearest resolvable ancestor, or its own center if none resolves.
// Consecutive equal points are collapsed.
func PathToCoordinates(path []*hierarchy.RenderedNode, coords map[hierarchy.NodeID]r2.Vec, ix *hierarchy.Index, srcPt, tgtPt r2.Vec) []r2.Vec {
	if len(path) == 0 {
		return []r2.Vec{srcPt, tgtPt}
	}
	pts := make([]r2.Vec, 0, len(path))
	for _, n := range path {
		if n == nil {
			continue
		}
		pts = append(pts, resolve(n, coords, ix))
	}
	return slices.Compact(pts)
}

func resolve(n *hierarchy.RenderedNode, coords map[hierarchy.NodeID]r2.Vec, ix *hierarchy.Index) r2.Vec {
	if p, ok := coords[n.Key()]; ok {
		return p
	}
	if ix != nil {
		cur := n
		for range ix.Len() {
			parent, ok := ix.Parent(cur.Key())
			if !ok {
				break
			}
			if p, ok := coords[parent.Key()]; ok {
				return p
			}
			cur = parent
		}
	}
	return n.Center()
}

// ShouldFilterEdge reports whether an edge is hidden while hovered is
// hovered. Nothing is hidden without a hover, edges touching the hovered
// node stay, and hovering a node with children keeps every edge. With a nil
// index the hovered node is treated as a leaf.
func ShouldFilterEdge(e hierarchy.Edge, hovered hierarchy.NodeID, ix *hierarchy.Index) bool {
	if hovered == "" || e.Touches(hovered) {
		return false
	}
	if ix != nil && ix.HasChildren(hovered) {
		return false
	}
	return true
}

// ComputeVisibleEdgeNodeIDs returns the endpoints of every edge that survives
// ShouldFilterEdge. When coords is non-nil, endpoints without a coordinate
// are left out.
func ComputeVisibleEdgeNodeIDs(edges []hierarchy.Edge, coords map[hierarchy.NodeID]r2.Vec, hovered hierarchy.NodeID, ix *hierarchy.Index) map[hierarchy.NodeID]struct{} {
	out := make(map[hierarchy.NodeID]struct{})
	add := func(id hierarchy.NodeID) {
		if coords != nil {
			if _, ok := coords[id]; !ok {
				return
			}
		}
		out[id] = struct{}{}
	}
	for _, e := range edges {
		if ShouldFilterEdge(e, hovered, ix) {
			continue
		}
		add(e.Source)
		add(e.Target)
	}
	return out
}
