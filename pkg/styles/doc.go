// Package styles defines the visual styling for cactus diagrams.
//
// A [Style] carries base node, edge and label styles, a highlight style used
// for hover and selection, and per-depth overrides ([DepthStyle]). Depth keys
// are root-relative integers (0 = root), negative leaf-relative levels
// (-1 = leaves, -2 = their parents, ...) or the wildcard "*".
//
// Styles are usually loaded from TOML:
//
//	background = "#ffffff"
//	mute_opacity = 0.15
//
//	[edge]
//	color = "#c0392b"
//	width = 1.5
//
//	[[depth]]
//	depth = "*"
//	node = { fill = "#eef2f7" }
//
//	[[depth]]
//	depth = -1
//	node = { fill = "#9ecae1" }
//
// [Merge] fills defaults and expands wildcard entries into concrete depths so
// that renderers only ever see literal values.
package styles
