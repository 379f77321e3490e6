package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/hierarchy"
)

// DefaultWheelSensitivity scales wheel deltaY into a zoom exponent. One
// notch of 100 units zooms by a factor of about 1.105.
const DefaultWheelSensitivity = 0.001

// Config enables interactions and tunes the wheel.
type Config struct {
	WheelSensitivity float64 `toml:"wheel_sensitivity" json:"wheel_sensitivity"`
	Pannable         bool    `toml:"pannable" json:"pannable"`
	Zoomable         bool    `toml:"zoomable" json:"zoomable"`
}

// DefaultConfig enables panning and zooming at the default wheel sensitivity.
func DefaultConfig() Config {
	return Config{WheelSensitivity: DefaultWheelSensitivity, Pannable: true, Zoomable: true}
}

// HitTester returns the node under a world point, or "" for none.
type HitTester func(world r2.Vec) hierarchy.NodeID

// Controller is the interaction state machine. It owns a State and mutates
// it only from its handlers. A Controller is not safe for concurrent use.
type Controller struct {
	State  State
	Config Config

	// Origin is the surface's top-left corner in client coordinates.
	Origin r2.Vec
	// OnRedraw is called at most once per handler when the view changed.
	OnRedraw func()
	// HitTest drives hover tracking on moves outside a drag. Optional.
	HitTest HitTester

	mode Mode
}

// NewController returns an idle controller at zoom 1 within the given limits.
func NewController(cfg Config, minZoom, maxZoom float64) *Controller {
	if !(cfg.WheelSensitivity > 0) {
		cfg.WheelSensitivity = DefaultWheelSensitivity
	}
	return &Controller{State: NewState(minZoom, maxZoom), Config: cfg}
}

// Mode returns the current interaction state.
func (c *Controller) Mode() Mode { return c.mode }

// SetZoomLimits replaces the zoom limits, e.g. after a new layout.
func (c *Controller) SetZoomLimits(minZoom, maxZoom float64) {
	before := c.State.Zoom
	c.State.SetZoomLimits(minZoom, maxZoom)
	c.done(c.State.Zoom != before)
}

// PointerDown starts a pan at (x, y) when panning is enabled.
func (c *Controller) PointerDown(x, y float64) {
	p, ok := c.screen(x, y)
	if !ok {
		return
	}
	c.State.LastX, c.State.LastY = p.X, p.Y
	if c.Config.Pannable {
		c.mode = Panning
		c.State.Dragging = true
	}
	c.done(false)
}

// PointerMove pans while dragging. Otherwise it tracks the pointer and
// updates the hovered node.
func (c *Controller) PointerMove(x, y float64) {
	p, ok := c.screen(x, y)
	if !ok {
		return
	}
	if c.mode == Panning {
		c.panTo(p)
		c.done(true)
		return
	}
	c.State.LastX, c.State.LastY = p.X, p.Y
	c.done(c.hover(p))
}

// PointerUp ends a pan.
func (c *Controller) PointerUp() {
	if c.mode == Panning {
		c.mode = Idle
		c.State.Dragging = false
	}
	c.done(false)
}

// PointerLeave ends any pan and clears the hovered node.
func (c *Controller) PointerLeave() {
	c.mode = Idle
	c.State.Dragging = false
	cleared := c.State.Hovered != ""
	c.State.Hovered = ""
	c.done(cleared)
}

// Wheel zooms by exp(-deltaY*sensitivity) keeping the world point under
// (x, y) fixed on screen. It reports whether the event was consumed, i.e.
// whether the host should suppress its default scroll.
func (c *Controller) Wheel(x, y, deltaY float64) bool {
	if !c.Config.Zoomable {
		return false
	}
	p, ok := c.screen(x, y)
	if !ok || math.IsNaN(deltaY) {
		c.done(false)
		return true
	}
	c.zoomAt(p, c.State.Zoom*math.Exp(-deltaY*c.Config.WheelSensitivity))
	c.done(true)
	return true
}

// TouchStart handles the full list of active touches after a touch began.
// One touch starts a pan, two or more start a pinch.
func (c *Controller) TouchStart(touches []Touch) {
	c.State.Touches = append(c.State.Touches[:0], touches...)
	switch {
	case len(touches) >= 2:
		c.mode = Pinching
		c.State.Dragging = false
		c.State.LastTouchDistance = touchDistance(touches)
	case len(touches) == 1:
		c.startTouchPan(touches[0])
	}
	c.done(false)
}

// TouchMove handles the list of active touches after they moved.
func (c *Controller) TouchMove(touches []Touch) {
	c.State.Touches = append(c.State.Touches[:0], touches...)
	changed := false
	switch {
	case c.mode == Pinching && len(touches) >= 2:
		d := touchDistance(touches)
		if c.Config.Zoomable && c.State.LastTouchDistance > 0 && d > 0 {
			mid, ok := c.screen((touches[0].X+touches[1].X)/2, (touches[0].Y+touches[1].Y)/2)
			if ok {
				c.zoomAt(mid, c.State.Zoom*d/c.State.LastTouchDistance)
				changed = true
			}
		}
		if d > 0 {
			c.State.LastTouchDistance = d
		}
	case c.mode == Panning && len(touches) >= 1:
		if p, ok := c.screen(touches[0].X, touches[0].Y); ok {
			c.panTo(p)
			changed = true
		}
	}
	c.done(changed)
}

// TouchEnd handles the touches still active after one ended.
func (c *Controller) TouchEnd(remaining []Touch) {
	c.State.Touches = append(c.State.Touches[:0], remaining...)
	switch len(remaining) {
	case 0:
		c.mode = Idle
		c.State.Dragging = false
		c.State.LastTouchDistance = 0
	case 1:
		c.State.LastTouchDistance = 0
		c.mode = Idle
		c.State.Dragging = false
		c.startTouchPan(remaining[0])
	default:
		c.State.LastTouchDistance = touchDistance(remaining)
	}
	c.done(false)
}

func (c *Controller) startTouchPan(t Touch) {
	p, ok := c.screen(t.X, t.Y)
	if !ok {
		return
	}
	c.State.LastX, c.State.LastY = p.X, p.Y
	if c.Config.Pannable {
		c.mode = Panning
		c.State.Dragging = true
	}
}

func (c *Controller) panTo(p r2.Vec) {
	c.State.PanX += p.X - c.State.LastX
	c.State.PanY += p.Y - c.State.LastY
	c.State.LastX, c.State.LastY = p.X, p.Y
}

// zoomAt sets the zoom, clamped, and adjusts pan so the world point under
// anchor stays under it.
func (c *Controller) zoomAt(anchor r2.Vec, zoom float64) {
	if math.IsNaN(zoom) {
		return
	}
	world := c.State.ToWorld(anchor)
	c.State.Zoom = zoom
	c.State.clamp()
	c.State.PanX = anchor.X - world.X*c.State.Zoom
	c.State.PanY = anchor.Y - world.Y*c.State.Zoom
}

func (c *Controller) hover(p r2.Vec) bool {
	if c.HitTest == nil {
		return false
	}
	id := c.HitTest(c.State.ToWorld(p))
	if id == c.State.Hovered {
		return false
	}
	c.State.Hovered = id
	return true
}

// screen converts client coordinates, rejecting non-finite input.
func (c *Controller) screen(x, y float64) (r2.Vec, bool) {
	if !finite(x) || !finite(y) {
		return r2.Vec{}, false
	}
	return r2.Vec{X: x - c.Origin.X, Y: y - c.Origin.Y}, true
}

// done ends every handler: zoom is clamped and OnRedraw runs once if changed.
func (c *Controller) done(changed bool) {
	c.State.clamp()
	if changed && c.OnRedraw != nil {
		c.OnRedraw()
	}
}

func touchDistance(t []Touch) float64 {
	if len(t) < 2 {
		return 0
	}
	d := r2.Norm(r2.Vec{X: t[1].X - t[0].X, Y: t[1].Y - t[0].Y})
	if !finite(d) {
		return 0
	}
	return d
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
