// Package hierarchy provides the node model and lookup index for laid-out
// cactus trees.
//
// # Overview
//
// A hierarchy is a flat list of [TreeNode] values where each node names its
// parent by ID. The (external) layout step turns every TreeNode into a
// [RenderedNode] carrying position, radius and root-relative depth. [Build]
// consumes those rendered nodes and produces an [Index]: the lookup
// structures the router, the viewport filter and the scene renderer query
// on every frame.
//
// # Parent references
//
// Parent links are resolved once per build into a lookup-only association
// ([Index.Parent]). A parent ID that does not resolve marks the node as an
// effective root. Nothing is ever patched incrementally: when the node set
// changes the caller builds a new Index and drops the old one, together with
// its [PathCache].
//
// # Leaf-relative levels
//
// Besides root-relative depth, the index groups nodes by generation counted
// outward from the leaves: level -1 holds every leaf, level -2 the distinct
// parents of level -1, and so on until the frontier is empty. Styles keyed by
// negative depths use these levels.
//
// # Malformed input
//
// Build never fails. Duplicate IDs keep their first occurrence, dangling
// parents become roots, and every walk over parent links is bounded by the
// node count so cyclic input terminates.
package hierarchy
