// Package canvas defines the immediate-mode 2D drawing surface used by the
// cactus renderer, and the backends that implement it.
//
// [Context] mirrors the browser canvas model: a current path built from
// MoveTo/LineTo/QuadraticCurveTo/Arc, painted with Stroke or Fill using the
// mutable stroke style, fill style, line width and global alpha. Stroke and
// Fill leave the current path intact; BeginPath discards it. Save and Restore
// push and pop the paint state.
//
// Backends:
//   - [Raster]: anti-aliased bitmap via fogleman/gg, encodes PNG
//   - [SVG]: retained-nothing SVG writer, one element per paint call
//   - [Grid]: character-cell surface for terminal viewers
//   - [Recorder]: records commands, for tests and debugging
//
// Colors are CSS-style strings: "#rgb", "#rrggbb" or a small set of names.
package canvas
