package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// SVG records paint calls as SVG elements. Every Stroke or Fill emits one
// <path>; the current path is kept until BeginPath.
type SVG struct {
	paint
	width, height float64
	path          strings.Builder
	buf           bytes.Buffer
}

var _ Context = (*SVG)(nil)

// NewSVG creates an SVG surface with the given viewport size.
func NewSVG(width, height float64) *SVG {
	return &SVG{paint: newPaint(), width: width, height: height}
}

// Clear paints a full-size background rectangle.
func (s *SVG) Clear(color string) {
	fmt.Fprintf(&s.buf, "  <rect x=\"0\" y=\"0\" width=\"%.0f\" height=\"%.0f\" fill=\"%s\"/>\n",
		s.width, s.height, NormalizeColor(color))
}

func (s *SVG) BeginPath()          { s.path.Reset() }
func (s *SVG) MoveTo(x, y float64) { fmt.Fprintf(&s.path, "M%.2f %.2f ", x, y) }
func (s *SVG) LineTo(x, y float64) { fmt.Fprintf(&s.path, "L%.2f %.2f ", x, y) }

func (s *SVG) QuadraticCurveTo(cpx, cpy, x, y float64) {
	fmt.Fprintf(&s.path, "Q%.2f %.2f %.2f %.2f ", cpx, cpy, x, y)
}

func (s *SVG) Arc(x, y, r float64) {
	fmt.Fprintf(&s.path, "M%.2f %.2f A%.2f %.2f 0 1 0 %.2f %.2f A%.2f %.2f 0 1 0 %.2f %.2f Z ",
		x-r, y, r, r, x+r, y, r, r, x-r, y)
}

func (s *SVG) Stroke() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	stroke, alpha := paintOf(s.st.StrokeStyle)
	fmt.Fprintf(&s.buf, "  <path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-opacity=\"%.3f\" stroke-linecap=\"round\"/>\n",
		d, stroke, s.st.LineWidth, alpha*s.st.GlobalAlpha)
}

func (s *SVG) Fill() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	fill, alpha := paintOf(s.st.FillStyle)
	fmt.Fprintf(&s.buf, "  <path d=\"%s\" fill=\"%s\" fill-opacity=\"%.3f\" stroke=\"none\"/>\n",
		d, fill, alpha*s.st.GlobalAlpha)
}

func (s *SVG) FillText(text string, x, y float64) {
	if text == "" {
		return
	}
	fill, alpha := paintOf(s.st.FillStyle)
	fmt.Fprintf(&s.buf, "  <text x=\"%.2f\" y=\"%.2f\" font-family=\"sans-serif\" font-size=\"%.1f\" fill=\"%s\" fill-opacity=\"%.3f\" text-anchor=\"middle\" dominant-baseline=\"central\">",
		x, y, s.st.FontSize, fill, alpha*s.st.GlobalAlpha)
	_ = xml.EscapeText(&s.buf, []byte(text))
	s.buf.WriteString("</text>\n")
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}
