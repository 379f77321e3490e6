package route

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/styles"
)

// DefaultControlRatio places curve joints halfway between route points.
const DefaultControlRatio = 0.5

// CurveOptions shapes bundled edges.
type CurveOptions struct {
	// ControlRatio is where, between two consecutive route points, one
	// quadratic segment ends and the next begins. Values outside (0, 1) use
	// DefaultControlRatio.
	ControlRatio float64
}

func (o CurveOptions) ratio() float64 {
	if o.ControlRatio <= 0 || o.ControlRatio >= 1 {
		return DefaultControlRatio
	}
	return o.ControlRatio
}

// EdgeContext carries everything DrawEdge reads besides the edge itself.
type EdgeContext struct {
	Coords map[hierarchy.NodeID]r2.Vec
	Index  *hierarchy.Index
	// Cache memoizes routes. Nil means Index.Paths().
	Cache *hierarchy.PathCache
	Style styles.Style

	Hovered     hierarchy.NodeID
	Highlighted map[hierarchy.NodeID]struct{}

	// Bundling is clamped to [0, 1].
	Bundling float64
	Curve    CurveOptions

	Muted bool
	// MuteOpacity overrides Style.Mute() when positive.
	MuteOpacity float64

	// Bounds, when set, culls edges whose geometry lies entirely outside it.
	// It is in the same coordinate space as Coords.
	Bounds *r2.Box
}

func (c *EdgeContext) cache() *hierarchy.PathCache {
	if c.Cache != nil {
		return c.Cache
	}
	if c.Index != nil {
		return c.Index.Paths()
	}
	return nil
}

func (c *EdgeContext) highlighted(e hierarchy.Edge) bool {
	if c.Hovered != "" && e.Touches(c.Hovered) {
		return true
	}
	_, src := c.Highlighted[e.Source]
	_, tgt := c.Highlighted[e.Target]
	return src || tgt
}

// ResolveEdgeStyle layers the base edge style, the depth entry for depth,
// and the highlight style when highlighted.
func ResolveEdgeStyle(style styles.Style, ix *hierarchy.Index, depth int, highlighted bool) styles.EdgeStyle {
	es := style.Edge
	if ix != nil {
		if ds, ok := ix.DepthStyle(depth); ok {
			es = es.Apply(ds.Edge)
		}
	}
	if highlighted {
		es = es.Apply(style.Highlight.Edge)
	}
	return es
}

// DrawEdge strokes one edge and reports whether a stroke was issued. It
// draws nothing for a nil surface, nil endpoints, a zero effective width or
// geometry outside ec.Bounds. The deeper endpoint is treated as the source.
// Paint state is restored before returning.
func DrawEdge(dc canvas.Context, e hierarchy.Edge, src, tgt *hierarchy.RenderedNode, ec *EdgeContext) bool {
	if dc == nil || ec == nil || src == nil || tgt == nil {
		return false
	}
	if tgt.Depth > src.Depth {
		src, tgt = tgt, src
	}

	es := ResolveEdgeStyle(ec.Style, ec.Index, src.Depth, ec.highlighted(e))
	width := es.LineWidth()
	if width <= 0 {
		return false
	}
	alpha := es.Alpha()
	if ec.Muted {
		mute := ec.MuteOpacity
		if mute <= 0 {
			mute = ec.Style.Mute()
		}
		alpha *= mute
	}

	pts := edgePoints(src, tgt, ec)
	if ec.Bounds != nil && !overlaps(bounds(pts, width/2), *ec.Bounds) {
		return false
	}

	dc.Save()
	defer dc.Restore()
	dc.SetStrokeStyle(es.Color)
	dc.SetLineWidth(width)
	dc.SetGlobalAlpha(clamp(alpha, 0, 1))
	dc.BeginPath()
	Trace(dc, pts, ec.Curve)
	dc.Stroke()
	return true
}

func edgePoints(src, tgt *hierarchy.RenderedNode, ec *EdgeContext) []r2.Vec {
	sp, ok := ec.Coords[src.Key()]
	if !ok {
		sp = src.Center()
	}
	tp, ok := ec.Coords[tgt.Key()]
	if !ok {
		tp = tgt.Center()
	}
	beta := clamp(ec.Bundling, 0, 1)
	if beta == 0 {
		return []r2.Vec{sp, tp}
	}
	path := BuildHierarchicalPath(src, tgt, ec.Index, ec.cache())
	return Bundle(PathToCoordinates(path, ec.Coords, ec.Index, sp, tp), beta)
}

// Bundle pulls each interior point of a route toward the straight line
// between its endpoints: beta 1 keeps the route, beta 0 flattens it.
// Consecutive equal points are collapsed.
func Bundle(pts []r2.Vec, beta float64) []r2.Vec {
	n := len(pts)
	if n < 3 {
		return pts
	}
	beta = clamp(beta, 0, 1)
	first, last := pts[0], pts[n-1]
	out := make([]r2.Vec, 0, n)
	for i, p := range pts {
		t := float64(i) / float64(n-1)
		straight := r2.Add(first, r2.Scale(t, r2.Sub(last, first)))
		q := r2.Add(straight, r2.Scale(beta, r2.Sub(p, straight)))
		if len(out) > 0 && out[len(out)-1] == q {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Trace adds pts to the current path. Two points make a line; longer
// sequences become a chain of quadratic segments that use interior points as
// control points and join at ratio-weighted points between them.
func Trace(dc canvas.Context, pts []r2.Vec, opts CurveOptions) {
	if len(pts) == 0 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	switch len(pts) {
	case 1:
		return
	case 2:
		dc.LineTo(pts[1].X, pts[1].Y)
		return
	}
	ratio := opts.ratio()
	for i := 1; i < len(pts)-1; i++ {
		cp := pts[i]
		end := pts[len(pts)-1]
		if i < len(pts)-2 {
			end = r2.Add(cp, r2.Scale(ratio, r2.Sub(pts[i+1], cp)))
		}
		dc.QuadraticCurveTo(cp.X, cp.Y, end.X, end.Y)
	}
}

func bounds(pts []r2.Vec, pad float64) r2.Box {
	b := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range pts {
		b.Min.X, b.Min.Y = min(b.Min.X, p.X), min(b.Min.Y, p.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, p.X), max(b.Max.Y, p.Y)
	}
	b.Min = r2.Sub(b.Min, r2.Vec{X: pad, Y: pad})
	b.Max = r2.Add(b.Max, r2.Vec{X: pad, Y: pad})
	return b
}

func overlaps(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
