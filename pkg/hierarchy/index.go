package hierarchy

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/styles"
)

// Index is the lookup snapshot built from one layout pass.
//
// An Index is immutable after Build except for its PathCache, which memoizes
// routing results for this snapshot only. It holds references to the caller's
// RenderedNode values and never copies them. Index is not safe for concurrent
// mutation of its PathCache.
type Index struct {
	nodes       []*RenderedNode
	byID        map[NodeID]*RenderedNode
	trees       map[NodeID]*TreeNode
	parent      map[NodeID]NodeID
	children    map[NodeID][]*RenderedNode
	leaves      map[NodeID]struct{}
	levels      map[int]map[NodeID]struct{}
	generation  map[NodeID]int
	depthStyles map[int]styles.DepthStyle
	paths       *PathCache
	maxDepth    int
}

// Build indexes rendered nodes and the depth entries of a resolved style.
//
// The passes run in order: parent references, id and child maps, leaf
// detection, leaf-relative levels, depth style cache. The returned index has
// an empty PathCache. Build never fails: nil entries are skipped, duplicate
// IDs keep their first occurrence and unresolved parents make effective roots.
func Build(nodes []*RenderedNode, style styles.Style) *Index {
	ix := &Index{
		nodes:       make([]*RenderedNode, 0, len(nodes)),
		byID:        make(map[NodeID]*RenderedNode, len(nodes)),
		trees:       make(map[NodeID]*TreeNode, len(nodes)),
		parent:      make(map[NodeID]NodeID, len(nodes)),
		children:    make(map[NodeID][]*RenderedNode),
		leaves:      make(map[NodeID]struct{}),
		levels:      make(map[int]map[NodeID]struct{}),
		generation:  make(map[NodeID]int),
		depthStyles: make(map[int]styles.DepthStyle),
		paths:       NewPathCache(),
	}

	for _, r := range nodes {
		if r == nil {
			continue
		}
		id := r.Key()
		if _, dup := ix.byID[id]; dup {
			continue
		}
		ix.nodes = append(ix.nodes, r)
		ix.byID[id] = r
		if r.Node != nil {
			ix.trees[id] = r.Node
		}
	}

	ix.resolveParents()
	ix.indexChildren()
	ix.detectLeaves()
	ix.buildLevels()
	ix.cacheDepthStyles(style)
	return ix
}

func (ix *Index) resolveParents() {
	for id, t := range ix.trees {
		if t.Parent == "" {
			continue
		}
		if _, ok := ix.byID[t.Parent]; ok {
			ix.parent[id] = t.Parent
		}
	}
}

func (ix *Index) indexChildren() {
	for _, r := range ix.nodes {
		id := r.Key()
		if p, ok := ix.parent[id]; ok {
			ix.children[p] = append(ix.children[p], r)
		}
		ix.maxDepth = max(ix.maxDepth, r.Depth)
	}
}

func (ix *Index) detectLeaves() {
	for _, r := range ix.nodes {
		id := r.Key()
		if _, hasChildren := ix.children[id]; !hasChildren {
			ix.leaves[id] = struct{}{}
		}
	}
}

// buildLevels walks outward from the leaves one generation at a time. The
// walk stops when the frontier is empty or after len(nodes) levels, which
// only happens on cyclic parent chains.
func (ix *Index) buildLevels() {
	frontier := make(map[NodeID]struct{}, len(ix.leaves))
	for id := range ix.leaves {
		frontier[id] = struct{}{}
	}
	for level := -1; len(frontier) > 0 && -level <= len(ix.nodes); level-- {
		ix.levels[level] = frontier
		next := make(map[NodeID]struct{})
		for id := range frontier {
			if _, seen := ix.generation[id]; !seen {
				ix.generation[id] = level
			}
			if p, ok := ix.parent[id]; ok {
				next[p] = struct{}{}
			}
		}
		frontier = next
	}
}

func (ix *Index) cacheDepthStyles(style styles.Style) {
	for _, ds := range style.Depths {
		if ds.Depth.Wildcard || ds.Depth.Value < 0 {
			continue
		}
		ix.depthStyles[ds.Depth.Value] = ds
	}
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.nodes) }

// Nodes returns the indexed nodes in input order. The slice must not be modified.
func (ix *Index) Nodes() []*RenderedNode { return ix.nodes }

// Node returns the rendered node with the given ID.
func (ix *Index) Node(id NodeID) (*RenderedNode, bool) {
	r, ok := ix.byID[id]
	return r, ok
}

// Tree returns the source TreeNode with the given ID.
func (ix *Index) Tree(id NodeID) (*TreeNode, bool) {
	t, ok := ix.trees[id]
	return t, ok
}

// Parent returns the resolved parent of id. It reports false for roots,
// including nodes whose parent ID did not resolve.
func (ix *Index) Parent(id NodeID) (*RenderedNode, bool) {
	p, ok := ix.parent[id]
	if !ok {
		return nil, false
	}
	return ix.byID[p], true
}

// Children returns the children of id in input order.
func (ix *Index) Children(id NodeID) []*RenderedNode { return ix.children[id] }

// HasChildren reports whether any node names id as its parent.
func (ix *Index) HasChildren(id NodeID) bool {
	_, ok := ix.children[id]
	return ok
}

// IsLeaf reports whether id is an indexed node without children.
func (ix *Index) IsLeaf(id NodeID) bool {
	_, ok := ix.leaves[id]
	return ok
}

// Leaves returns the leaf IDs in sorted order.
func (ix *Index) Leaves() []NodeID { return sortedIDs(ix.leaves) }

// Level returns the IDs at a leaf-relative level (-1 = leaves), sorted.
// It returns nil for levels that were not emitted.
func (ix *Index) Level(level int) []NodeID {
	set, ok := ix.levels[level]
	if !ok {
		return nil
	}
	return sortedIDs(set)
}

// InLevel reports whether id belongs to the given leaf-relative level.
func (ix *Index) InLevel(level int, id NodeID) bool {
	_, ok := ix.levels[level][id]
	return ok
}

// Levels returns the emitted leaf-relative levels from -1 downward.
func (ix *Index) Levels() []int {
	out := make([]int, 0, len(ix.levels))
	for l := range ix.levels {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	return out
}

// Generation returns the leaf-relative level closest to the leaves that
// contains id.
func (ix *Index) Generation(id NodeID) (int, bool) {
	g, ok := ix.generation[id]
	return g, ok
}

// DepthStyle returns the cached style entry for a root-relative depth.
func (ix *Index) DepthStyle(depth int) (styles.DepthStyle, bool) {
	ds, ok := ix.depthStyles[depth]
	return ds, ok
}

// MaxDepth returns the largest root-relative depth among indexed nodes.
func (ix *Index) MaxDepth() int { return ix.maxDepth }

// Paths returns the routing memo owned by this snapshot.
func (ix *Index) Paths() *PathCache { return ix.paths }

// TreeEdges returns one parent-to-child edge per resolved parent link, in
// input order of the children.
func (ix *Index) TreeEdges() []Edge {
	edges := make([]Edge, 0, len(ix.parent))
	for _, r := range ix.nodes {
		id := r.Key()
		if p, ok := ix.parent[id]; ok {
			edges = append(edges, Edge{Source: p, Target: id})
		}
	}
	return edges
}

func sortedIDs(set map[NodeID]struct{}) []NodeID {
	out := make([]NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Coordinates returns the center of every indexed node keyed by ID.
func (ix *Index) Coordinates() map[NodeID]r2.Vec {
	out := make(map[NodeID]r2.Vec, len(ix.nodes))
	for _, r := range ix.nodes {
		out[r.Key()] = r.Center()
	}
	return out
}
