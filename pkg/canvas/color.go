package canvas

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// extraNames are CSS color names missing from the SVG 1.1 table.
var extraNames = map[string]color.RGBA{
	"rebeccapurple": {R: 0x66, G: 0x33, B: 0x99, A: 0xff},
}

// ParseColor converts a CSS color string. It reports false for unparseable
// input and for "none"/"transparent". The alpha component is dropped; use
// ParseColorAlpha to keep it.
func ParseColor(s string) (colorful.Color, bool) {
	c, _, ok := ParseColorAlpha(s)
	return c, ok
}

// ParseColorAlpha converts a CSS color string and returns its alpha in [0, 1].
// It accepts every CSS named color, "#rgb", "#rrggbb", "#rrggbbaa",
// rgb()/rgba() with numeric or percentage channels, and hsl()/hsla().
func ParseColorAlpha(s string) (colorful.Color, float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return colorful.Color{}, 0, false
	}
	if named, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(named)
		return c, 1, true
	}
	if named, ok := extraNames[s]; ok {
		c, _ := colorful.MakeColor(named)
		return c, 1, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if name, args, ok := parseFunc(s); ok {
		switch name {
		case "rgb", "rgba":
			return parseRGB(args)
		case "hsl", "hsla":
			return parseHSL(args)
		}
	}
	return colorful.Color{}, 0, false
}

// NormalizeColor returns the "#rrggbb" form of s, or "none".
func NormalizeColor(s string) string {
	c, ok := ParseColor(s)
	if !ok {
		return "none"
	}
	return c.Clamped().Hex()
}

// paintOf returns the "#rrggbb" form of s and its alpha, or "none" and 0.
func paintOf(s string) (string, float64) {
	c, a, ok := ParseColorAlpha(s)
	if !ok {
		return "none", 0
	}
	return c.Clamped().Hex(), a
}

func parseHex(s string) (colorful.Color, float64, bool) {
	alpha := 1.0
	switch len(s) {
	case 5, 9:
		n := (len(s) - 1) / 4
		v, err := strconv.ParseUint(s[len(s)-n:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		if n == 1 {
			v *= 17
		}
		alpha = float64(v) / 255
		s = s[:len(s)-n]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, 0, false
	}
	return c, alpha, true
}

// parseFunc splits "name(a, b, c / d)" into name and its arguments. Commas,
// spaces and the slash before alpha all separate arguments.
func parseFunc(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	body := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : len(s)-1])
	return strings.TrimSpace(s[:open]), strings.Fields(body), true
}

func parseRGB(args []string) (colorful.Color, float64, bool) {
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, false
	}
	var ch [3]float64
	for i := range ch {
		v, ok := channel(args[i], 255)
		if !ok {
			return colorful.Color{}, 0, false
		}
		ch[i] = v
	}
	alpha, ok := alphaArg(args)
	if !ok {
		return colorful.Color{}, 0, false
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha, true
}

func parseHSL(args []string) (colorful.Color, float64, bool) {
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return colorful.Color{}, 0, false
	}
	sat, ok1 := percent(args[1])
	light, ok2 := percent(args[2])
	alpha, ok3 := alphaArg(args)
	if !ok1 || !ok2 || !ok3 {
		return colorful.Color{}, 0, false
	}
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return colorful.Hsl(h, sat, light), alpha, true
}

// channel parses a number in [0, scale] or a percentage, returning [0, 1].
func channel(s string, scale float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		return percent(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(v / scale), true
}

func percent(s string) (float64, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return clamp01(v / 100), true
}

func alphaArg(args []string) (float64, bool) {
	if len(args) < 4 {
		return 1, true
	}
	return channel(args[3], 1)
}

// withAlpha returns c as a non-premultiplied color with the given opacity.
func withAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
