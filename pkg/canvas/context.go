package canvas

// Context is a 2D immediate-mode drawing surface.
type Context interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	// Arc adds a full circle as a closed subpath.
	Arc(x, y, r float64)
	Stroke()
	Fill()
	FillText(text string, x, y float64)

	SetStrokeStyle(color string)
	SetFillStyle(color string)
	SetLineWidth(w float64)
	SetGlobalAlpha(a float64)
	SetFontSize(size float64)

	Save()
	Restore()
}

// State is the paint state shared by all backends.
type State struct {
	StrokeStyle string
	FillStyle   string
	LineWidth   float64
	GlobalAlpha float64
	FontSize    float64
}

// DefaultState matches the initial state of a browser canvas.
func DefaultState() State {
	return State{
		StrokeStyle: "#000000",
		FillStyle:   "#000000",
		LineWidth:   1,
		GlobalAlpha: 1,
		FontSize:    10,
	}
}

// paint implements the state half of Context; backends embed it.
type paint struct {
	st    State
	stack []State
}

func newPaint() paint { return paint{st: DefaultState()} }

func (p *paint) SetStrokeStyle(c string) { p.st.StrokeStyle = c }
func (p *paint) SetFillStyle(c string)   { p.st.FillStyle = c }
func (p *paint) SetFontSize(size float64) {
	if size > 0 {
		p.st.FontSize = size
	}
}

// SetLineWidth ignores non-positive widths, as a browser canvas does.
func (p *paint) SetLineWidth(w float64) {
	if w > 0 {
		p.st.LineWidth = w
	}
}

// SetGlobalAlpha ignores values outside [0, 1].
func (p *paint) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		p.st.GlobalAlpha = a
	}
}

func (p *paint) Save() { p.stack = append(p.stack, p.st) }

func (p *paint) Restore() {
	if n := len(p.stack); n > 0 {
		p.st = p.stack[n-1]
		p.stack = p.stack[:n-1]
	}
}

// State returns the current paint state.
func (p *paint) State() State { return p.st }
