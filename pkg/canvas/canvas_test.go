package canvas

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"
)

func TestPaintSaveRestore(t *testing.T) {
	r := NewRecorder()
	r.SetStrokeStyle("#ff0000")
	r.Save()
	r.SetStrokeStyle("#00ff00")
	r.SetLineWidth(3)
	r.Restore()

	st := r.State()
	if st.StrokeStyle != "#ff0000" {
		t.Errorf("StrokeStyle = %q, want #ff0000", st.StrokeStyle)
	}
	if st.LineWidth != 1 {
		t.Errorf("LineWidth = %v, want 1", st.LineWidth)
	}

	// Unbalanced restore is a no-op
	r.Restore()
	if r.State().StrokeStyle != "#ff0000" {
		t.Error("extra Restore should not change state")
	}
}

func TestPaintIgnoresInvalidValues(t *testing.T) {
	r := NewRecorder()
	r.SetLineWidth(0)
	r.SetLineWidth(-2)
	r.SetGlobalAlpha(1.5)
	r.SetGlobalAlpha(-0.1)
	r.SetFontSize(0)

	if got := r.State(); got != DefaultState() {
		t.Errorf("state = %+v, want defaults", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ff0000", "#ff0000", true},
		{"#F00", "#ff0000", true},
		{"Red", "#ff0000", true},
		{"steelblue", "#4682b4", true},
		{"purple", "#800080", true},
		{"rebeccapurple", "#663399", true},
		{"rgb(255, 0, 0)", "#ff0000", true},
		{"rgb(0 128 0)", "#008000", true},
		{"rgb(100%, 0%, 0%)", "#ff0000", true},
		{"rgba(0,0,0,0.5)", "#000000", true},
		{"hsl(240, 100%, 50%)", "#0000ff", true},
		{"#ff000080", "#ff0000", true},
		{"rgb(1, 2)", "", false},
		{"rgb(a, b, c)", "", false},
		{"none", "", false},
		{"transparent", "", false},
		{"", "", false},
		{"not-a-color", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && c.Hex() != tt.want {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
			}
		})
	}
}

func TestParseColorAlpha(t *testing.T) {
	tests := []struct {
		in    string
		alpha float64
	}{
		{"steelblue", 1},
		{"#fff", 1},
		{"rgb(1, 2, 3)", 1},
		{"rgba(0,0,0,0.5)", 0.5},
		{"rgb(0 0 0 / 25%)", 0.25},
		{"hsla(0, 100%, 50%, 0.2)", 0.2},
		{"#00000000", 0},
		{"#0008", 0x88 / 255.0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, a, ok := ParseColorAlpha(tt.in)
			if !ok {
				t.Fatalf("ParseColorAlpha(%q) not ok", tt.in)
			}
			if math.Abs(a-tt.alpha) > 1e-9 {
				t.Errorf("ParseColorAlpha(%q) alpha = %v, want %v", tt.in, a, tt.alpha)
			}
		})
	}
}

func TestSVGColorAlpha(t *testing.T) {
	s := NewSVG(10, 10)
	s.SetGlobalAlpha(0.5)
	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(5, 5)
	s.SetStrokeStyle("rgba(70, 130, 180, 0.5)")
	s.Stroke()
	s.SetFillStyle("steelblue")
	s.Fill()

	out := string(s.Bytes())
	for _, want := range []string{
		`stroke="#4682b4" stroke-width="1.00" stroke-opacity="0.250"`,
		`fill="#4682b4" fill-opacity="0.500"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q:\n%s", want, out)
		}
	}
}

func TestNormalizeColor(t *testing.T) {
	if got := NormalizeColor("white"); got != "#ffffff" {
		t.Errorf("NormalizeColor(white) = %q", got)
	}
	if got := NormalizeColor("steelblue"); got != "#4682b4" {
		t.Errorf("NormalizeColor(steelblue) = %q", got)
	}
	if got := NormalizeColor("bogus"); got != "none" {
		t.Errorf("NormalizeColor(bogus) = %q, want none", got)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.QuadraticCurveTo(5, 5, 10, 0)
	r.SetStrokeStyle("#123456")
	r.SetGlobalAlpha(0.5)
	r.Stroke()
	r.FillText("hi", 1, 2)

	if r.Count("stroke") != 1 || r.Count("moveTo") != 1 || r.Count("quadraticCurveTo") != 1 {
		t.Errorf("unexpected commands: %v", r.Commands)
	}
	c, ok := r.Last("stroke")
	if !ok {
		t.Fatal("missing stroke")
	}
	if c.State.StrokeStyle != "#123456" || c.State.GlobalAlpha != 0.5 {
		t.Errorf("stroke state = %+v", c.State)
	}
	if txt, _ := r.Last("fillText"); txt.Text != "hi" {
		t.Errorf("fillText = %v", txt)
	}

	r.Reset()
	if len(r.Commands) != 0 || r.State() != DefaultState() {
		t.Error("Reset should clear commands and state")
	}
}

func TestSVG(t *testing.T) {
	s := NewSVG(100, 50)
	s.Clear("#ffffff")
	s.BeginPath()
	s.MoveTo(10, 10)
	s.LineTo(90, 40)
	s.SetStrokeStyle("red")
	s.SetLineWidth(2)
	s.Stroke()
	s.BeginPath()
	s.Arc(50, 25, 10)
	s.SetFillStyle("#00ff00")
	s.Fill()
	s.FillText("a<b", 50, 25)

	out := string(s.Bytes())
	for _, want := range []string{
		`<svg`,
		`viewBox="0 0 100.0 50.0"`,
		`d="M10.00 10.00 L90.00 40.00"`,
		`stroke="#ff0000"`,
		`stroke-width="2.00"`,
		`fill="#00ff00"`,
		`a&lt;b`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q:\n%s", want, out)
		}
	}
}

func TestSVGEmptyPathIsSkipped(t *testing.T) {
	s := NewSVG(10, 10)
	s.BeginPath()
	s.Stroke()
	s.Fill()
	if strings.Contains(string(s.Bytes()), "<path") {
		t.Error("empty path should not emit elements")
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(20, 10)
	r.Clear("#ffffff")
	r.BeginPath()
	r.Arc(10, 5, 4)
	r.SetFillStyle("#000000")
	r.Fill()

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v", b)
	}
	if cr, _, _, _ := img.At(10, 5).RGBA(); cr > 0x1000 {
		t.Errorf("center pixel should be filled, red = %#x", cr)
	}
	if cr, _, _, _ := img.At(0, 0).RGBA(); cr < 0xf000 {
		t.Errorf("corner pixel should be background, red = %#x", cr)
	}
}

func TestGridLine(t *testing.T) {
	g := NewGrid(10, 3, 1, 1)
	g.BeginPath()
	g.MoveTo(0, 1.5)
	g.LineTo(9.5, 1.5)
	g.Stroke()

	lines := strings.Split(g.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	if lines[1] != strings.Repeat("•", 10) {
		t.Errorf("row 1 = %q", lines[1])
	}
	if strings.TrimSpace(lines[0]) != "" {
		t.Errorf("row 0 should be empty, got %q", lines[0])
	}
}

func TestGridFaintStroke(t *testing.T) {
	g := NewGrid(4, 1, 1, 1)
	g.SetGlobalAlpha(0.2)
	g.BeginPath()
	g.MoveTo(0.5, 0.5)
	g.LineTo(3.5, 0.5)
	g.Stroke()
	if g.Rune(2, 0) != '·' {
		t.Errorf("Rune = %q, want faint mark", g.Rune(2, 0))
	}
}

func TestGridFillCircle(t *testing.T) {
	g := NewGrid(9, 9, 1, 1)
	g.BeginPath()
	g.Arc(4.5, 4.5, 3)
	g.Fill()
	if g.Rune(4, 4) != '▒' {
		t.Errorf("center = %q, want filled", g.Rune(4, 4))
	}
	if g.Rune(0, 0) != ' ' {
		t.Errorf("corner = %q, want empty", g.Rune(0, 0))
	}
}

func TestGridText(t *testing.T) {
	g := NewGrid(11, 1, 1, 1)
	g.FillText("abc", 5.5, 0.5)
	if got := g.String(); got != "    abc    " {
		t.Errorf("String = %q", got)
	}
	// Render keeps the text content even when styled
	if !strings.Contains(g.Render(), "abc") {
		t.Error("Render dropped text")
	}
	// Out of range lookups are blank
	if g.Rune(-1, 0) != ' ' || g.Rune(0, 5) != ' ' {
		t.Error("out of range should be blank")
	}
}
