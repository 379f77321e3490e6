package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	curveSteps  = 8
	circleSteps = 24
)

type cell struct {
	r     rune
	color string
}

type circle struct {
	c r2.Vec
	r float64
}

// Grid rasterizes paint calls onto a grid of terminal character cells.
// Each cell covers cellW×cellH surface units.
type Grid struct {
	paint
	cols, rows   int
	cellW, cellH float64
	cells        [][]cell
	lines        [][]r2.Vec
	circles      []circle
	pen          r2.Vec
}

var _ Context = (*Grid)(nil)

// NewGrid creates a grid of cols×rows cells.
func NewGrid(cols, rows int, cellW, cellH float64) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &Grid{paint: newPaint(), cols: cols, rows: rows, cellW: cellW, cellH: cellH}
	g.cells = make([][]cell, rows)
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
	}
	return g
}

func (g *Grid) BeginPath() {
	g.lines = g.lines[:0]
	g.circles = g.circles[:0]
}

func (g *Grid) MoveTo(x, y float64) {
	g.pen = r2.Vec{X: x, Y: y}
	g.lines = append(g.lines, []r2.Vec{g.pen})
}

func (g *Grid) LineTo(x, y float64) {
	if len(g.lines) == 0 {
		g.MoveTo(x, y)
		return
	}
	g.pen = r2.Vec{X: x, Y: y}
	last := len(g.lines) - 1
	g.lines[last] = append(g.lines[last], g.pen)
}

func (g *Grid) QuadraticCurveTo(cpx, cpy, x, y float64) {
	p0, cp, p1 := g.pen, r2.Vec{X: cpx, Y: cpy}, r2.Vec{X: x, Y: y}
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		a := r2.Add(r2.Scale((1-t)*(1-t), p0), r2.Scale(2*(1-t)*t, cp))
		p := r2.Add(a, r2.Scale(t*t, p1))
		g.LineTo(p.X, p.Y)
	}
}

func (g *Grid) Arc(x, y, r float64) {
	g.circles = append(g.circles, circle{c: r2.Vec{X: x, Y: y}, r: r})
	g.MoveTo(x+r, y)
	for i := 1; i <= circleSteps; i++ {
		a := 2 * math.Pi * float64(i) / circleSteps
		g.LineTo(x+r*math.Cos(a), y+r*math.Sin(a))
	}
}

func (g *Grid) Stroke() {
	mark := '•'
	if g.st.GlobalAlpha < 0.5 {
		mark = '·'
	}
	for _, line := range g.lines {
		for i := 1; i < len(line); i++ {
			g.plotSegment(line[i-1], line[i], mark, g.st.StrokeStyle)
		}
	}
}

// Fill shades the cells covered by circles in the current path.
func (g *Grid) Fill() {
	mark := '▒'
	if g.st.GlobalAlpha < 0.5 {
		mark = '░'
	}
	for _, c := range g.circles {
		c0, r0 := g.cellOf(r2.Vec{X: c.c.X - c.r, Y: c.c.Y - c.r})
		c1, r1 := g.cellOf(r2.Vec{X: c.c.X + c.r, Y: c.c.Y + c.r})
		for row := max(r0, 0); row <= min(r1, g.rows-1); row++ {
			for col := max(c0, 0); col <= min(c1, g.cols-1); col++ {
				center := r2.Vec{X: (float64(col) + 0.5) * g.cellW, Y: (float64(row) + 0.5) * g.cellH}
				if r2.Norm(r2.Sub(center, c.c)) <= c.r {
					g.set(col, row, mark, g.st.FillStyle)
				}
			}
		}
	}
}

// FillText writes text centered on the cell containing (x, y).
func (g *Grid) FillText(text string, x, y float64) {
	col, row := g.cellOf(r2.Vec{X: x, Y: y})
	runes := []rune(text)
	start := col - len(runes)/2
	for i, r := range runes {
		g.set(start+i, row, r, g.st.FillStyle)
	}
}

func (g *Grid) plotSegment(a, b r2.Vec, mark rune, color string) {
	c0, r0 := g.cellOf(a)
	c1, r1 := g.cellOf(b)
	steps := max(abs(c1-c0), abs(r1-r0), 1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
		col, row := g.cellOf(p)
		g.set(col, row, mark, color)
	}
}

func (g *Grid) cellOf(p r2.Vec) (int, int) {
	return int(math.Floor(p.X / g.cellW)), int(math.Floor(p.Y / g.cellH))
}

func (g *Grid) set(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.cells[row][col] = cell{r: r, color: color}
}

// Rune returns the character at a cell, or ' ' when empty or out of range.
func (g *Grid) Rune(col, row int) rune {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows || g.cells[row][col].r == 0 {
		return ' '
	}
	return g.cells[row][col].r
}

// String renders the grid as plain text, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for row := range g.rows {
		for col := range g.cols {
			b.WriteRune(g.Rune(col, row))
		}
		if row < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render returns the grid with cell colors applied via lipgloss.
func (g *Grid) Render() string {
	var b strings.Builder
	for row := range g.rows {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if c := NormalizeColor(runColor); c != "none" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := range g.cols {
			c := g.cells[row][col]
			if c.color != runColor {
				flush()
				runColor = c.color
			}
			run.WriteRune(g.Rune(col, row))
		}
		flush()
		if row < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
