// Package viewport turns pointer, wheel and touch input into pan and zoom
// state, and selects which nodes a frame needs to draw.
//
// # Coordinates
//
// World coordinates are the layout's. Screen coordinates are relative to the
// drawing surface's top-left corner:
//
//	screen = world*zoom + pan
//
// Event positions handed to a [Controller] are client coordinates; the
// controller subtracts [Controller.Origin] to get screen coordinates.
//
// # Interaction states
//
// A Controller is idle, panning (one pointer or touch captured) or pinching
// (two touches). Handlers run synchronously, clamp zoom into the configured
// limits before returning, and call OnRedraw at most once. They never draw.
// Zoom limits are supplied by the caller, typically from [ComputeZoomLimits].
//
// # Frame selection
//
// [FilterVisibleNodes] culls nodes whose scaled circle misses the surface
// (expanded by a margin) and [OptimizeRenderingOrder] orders the survivors
// largest first so small circles paint over big ones.
package viewport
