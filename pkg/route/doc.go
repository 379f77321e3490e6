// Package route computes and draws hierarchy-following edges.
//
// An edge between two nodes is routed through their nearest common ancestor:
// the path climbs from the source to the shared ancestor and descends to the
// target. [BuildHierarchicalPath] returns that node sequence (memoized in a
// [hierarchy.PathCache]), [PathToCoordinates] turns it into a polyline, and
// [DrawEdge] paints it as a smoothed curve whose pull toward the route is set
// by the bundling strength: 0 draws a straight segment, 1 follows the route.
//
// Hover filtering lives here too. Hovering a leaf isolates the edges touching
// it; hovering an interior node keeps every edge visible.
package route
