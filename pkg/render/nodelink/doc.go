// Package nodelink renders a cactus hierarchy as a traditional node-link
// diagram with Graphviz.
//
// # Usage
//
// Convert an indexed hierarchy to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(ix, edges, style, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Parent links become solid, rank-defining edges. Extra edges are dashed and
// left out of ranking, so the tree shape is preserved. Interior nodes are
// drawn with a double outline.
//
// The DOT source can also be saved and processed with external Graphviz
// tools. Rendering uses [github.com/goccy/go-graphviz] in process.
package nodelink
