package hierarchy

// PathKey identifies a routed pair. It is order-sensitive: the route from a to
// b and the route from b to a are cached separately.
type PathKey struct {
	From, To NodeID
}

// PathCache memoizes hierarchical routes for one Index snapshot.
// A nil *PathCache is valid and never stores anything.
type PathCache struct {
	paths map[PathKey][]*RenderedNode
}

// NewPathCache returns an empty cache.
func NewPathCache() *PathCache {
	return &PathCache{paths: make(map[PathKey][]*RenderedNode)}
}

// Get returns the cached route from one node to another.
func (c *PathCache) Get(from, to NodeID) ([]*RenderedNode, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.paths[PathKey{from, to}]
	return p, ok
}

// Put stores a route.
func (c *PathCache) Put(from, to NodeID, path []*RenderedNode) {
	if c == nil {
		return
	}
	c.paths[PathKey{from, to}] = path
}

// Len returns the number of cached routes.
func (c *PathCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.paths)
}

// Clear drops every cached route.
func (c *PathCache) Clear() {
	if c == nil {
		return
	}
	clear(c.paths)
}
