package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// Zoom limits used when none can be derived from a layout.
const (
	FallbackMinZoom = 0.1
	FallbackMaxZoom = 10.0
)

// Mode is the interaction state of a Controller.
type Mode int

const (
	Idle Mode = iota
	Panning
	Pinching
)

func (m Mode) String() string {
	switch m {
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	default:
		return "idle"
	}
}

// Touch is one active touch point in client coordinates.
type Touch struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// State is the viewport state read by the renderer.
type State struct {
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
	Zoom    float64 `json:"zoom"`
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`

	// Dragging is set while a pointer or single touch is captured for panning.
	Dragging bool             `json:"dragging"`
	Hovered  hierarchy.NodeID `json:"hovered,omitempty"`

	// LastX and LastY are the last pointer position in screen coordinates.
	LastX float64 `json:"last_x"`
	LastY float64 `json:"last_y"`

	Touches           []Touch `json:"touches,omitempty"`
	LastTouchDistance float64 `json:"last_touch_distance"`
}

// NewState returns a state at zoom 1 with the given limits.
func NewState(minZoom, maxZoom float64) State {
	s := State{Zoom: 1}
	s.SetZoomLimits(minZoom, maxZoom)
	return s
}

// SetZoomLimits installs zoom limits and clamps the current zoom into them.
// Non-positive or non-finite limits fall back to the defaults and swapped
// limits are reordered.
func (s *State) SetZoomLimits(minZoom, maxZoom float64) {
	if !(minZoom > 0) || math.IsInf(minZoom, 0) {
		minZoom = FallbackMinZoom
	}
	if !(maxZoom > 0) || math.IsInf(maxZoom, 0) {
		maxZoom = FallbackMaxZoom
	}
	if minZoom > maxZoom {
		minZoom, maxZoom = maxZoom, minZoom
	}
	s.MinZoom, s.MaxZoom = minZoom, maxZoom
	s.clamp()
}

// clamp forces Zoom into [MinZoom, MaxZoom]. NaN becomes MinZoom.
func (s *State) clamp() {
	switch {
	case math.IsNaN(s.Zoom) || s.Zoom < s.MinZoom:
		s.Zoom = s.MinZoom
	case s.Zoom > s.MaxZoom:
		s.Zoom = s.MaxZoom
	}
}

// ToWorld converts a screen point to world coordinates.
func (s State) ToWorld(p r2.Vec) r2.Vec {
	return r2.Scale(1/s.Zoom, r2.Sub(p, r2.Vec{X: s.PanX, Y: s.PanY}))
}

// ToScreen converts a world point to screen coordinates.
func (s State) ToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(s.Zoom, p), r2.Vec{X: s.PanX, Y: s.PanY})
}

// WorldBounds returns the world-space rectangle shown on a width×height
// surface, expanded by margin screen units on every side.
func (s State) WorldBounds(width, height, margin float64) r2.Box {
	return r2.Box{
		Min: s.ToWorld(r2.Vec{X: -margin, Y: -margin}),
		Max: s.ToWorld(r2.Vec{X: width + margin, Y: height + margin}),
	}
}
