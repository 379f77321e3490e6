// Package pkg provides the core libraries for Cactus hierarchy diagrams.
//
// # Overview
//
// Cactus draws a tree as nested circles: every node is a circle placed on
// its parent's rim, and extra edges between arbitrary nodes are bent along
// the hierarchy so that related edges bundle together. The pkg directory is
// organized into four areas:
//
//  1. Engine: [hierarchy], [route], [viewport] and [scene]
//  2. Layout and styling: [layout] and [styles]
//  3. Output: [canvas] and [render/nodelink]
//  4. Plumbing: [io], [pipeline], [cache], [source/mongo], [errors] and
//     [observability]
//
// # Architecture
//
// The typical data flow:
//
//	JSON document / MongoDB
//	         ↓
//	    [io] or [source/mongo] (tree nodes + extra edges)
//	         ↓
//	    [layout] (circle centers and radii)
//	         ↓
//	    [scene] (hierarchy index, merged styles)
//	         ↓
//	    [viewport] (cull + draw order) and [route] (edge paths)
//	         ↓
//	    [canvas] (SVG, PNG, terminal grid)
//
// # Quick Start
//
//	doc, _ := io.ImportJSON("tree.json")
//	nodes := layout.Compute(800, 600, 1, doc.Nodes, layout.DefaultOptions())
//
//	sc := scene.New(layout.Pointers(nodes), doc.Edges, styles.Style{})
//	dc := canvas.NewSVG(800, 600)
//	sc.Draw(dc, viewport.NewState(0.1, 10), scene.Options{Width: 800, Height: 600, Bundling: 0.85})
//	os.WriteFile("tree.svg", dc.Bytes(), 0o644)
//
// # Main Packages
//
// [hierarchy] - The index built once per layout: node lookup, parent and
// child maps, leaves, leaf-relative levels and the route memo.
//
// [route] - Hierarchical edge paths through the nearest common ancestor,
// bundling, and smooth curve drawing onto a canvas.
//
// [viewport] - Pan/zoom state, the pointer, wheel and touch interaction
// state machine, visibility culling and draw order.
//
// [scene] - One frame: culled nodes, labels and routed edges with hover
// focus and highlight styling.
//
// [pipeline] - Load → layout → render with caching, used by the CLI and the
// HTTP server.
//
// [cache] - File, Redis and null caches for layouts and rendered artifacts.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
package pkg
