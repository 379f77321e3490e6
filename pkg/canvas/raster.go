package canvas

import (
	"image"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
)

func loadFont() *truetype.Font {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			fontTTF = f
		}
	})
	return fontTTF
}

// Raster draws into an RGBA bitmap using fogleman/gg.
type Raster struct {
	paint
	dc       *gg.Context
	faceSize float64
	faces    map[float64]font.Face
}

var _ Context = (*Raster)(nil)

// NewRaster creates a transparent bitmap surface of the given pixel size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		paint: newPaint(),
		dc:    gg.NewContext(max(width, 1), max(height, 1)),
		faces: make(map[float64]font.Face),
	}
}

// Clear fills the whole surface with color. Unparseable colors leave it transparent.
func (r *Raster) Clear(color string) {
	c, a, ok := ParseColorAlpha(color)
	if !ok {
		return
	}
	r.dc.Push()
	r.dc.SetColor(withAlpha(c, a))
	r.dc.Clear()
	r.dc.Pop()
}

func (r *Raster) BeginPath()          { r.dc.ClearPath() }
func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(x, y) }
func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(x, y) }

func (r *Raster) QuadraticCurveTo(cpx, cpy, x, y float64) { r.dc.QuadraticTo(cpx, cpy, x, y) }

func (r *Raster) Arc(x, y, rad float64) {
	r.dc.NewSubPath()
	r.dc.DrawArc(x, y, rad, 0, 2*math.Pi)
	r.dc.ClosePath()
}

func (r *Raster) Stroke() {
	c, a, ok := ParseColorAlpha(r.st.StrokeStyle)
	if !ok {
		return
	}
	r.dc.SetColor(withAlpha(c, a*r.st.GlobalAlpha))
	r.dc.SetLineWidth(r.st.LineWidth)
	r.dc.StrokePreserve()
}

func (r *Raster) Fill() {
	c, a, ok := ParseColorAlpha(r.st.FillStyle)
	if !ok {
		return
	}
	r.dc.SetColor(withAlpha(c, a*r.st.GlobalAlpha))
	r.dc.FillPreserve()
}

// FillText draws text centered on (x, y).
func (r *Raster) FillText(text string, x, y float64) {
	c, a, ok := ParseColorAlpha(r.st.FillStyle)
	if !ok || text == "" {
		return
	}
	if face := r.face(r.st.FontSize); face != nil {
		r.dc.SetFontFace(face)
	}
	r.dc.SetColor(withAlpha(c, a*r.st.GlobalAlpha))
	r.dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func (r *Raster) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	ttf := loadFont()
	if ttf == nil {
		return nil
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size})
	r.faces[size] = f
	return f
}

// Image returns the underlying bitmap.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }
