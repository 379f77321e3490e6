package styles

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Defaults used when a style field is unset.
const (
	DefaultEdgeWidth   = 1.0
	DefaultStrokeWidth = 1.0
	DefaultFontSize    = 11.0
	DefaultMuteOpacity = 0.15
	DefaultLabelRadius = 12.0
)

// NodeStyle controls how a node circle is filled and outlined.
// Nil pointer fields are unset and inherit from the style below them.
type NodeStyle struct {
	Fill        string   `toml:"fill" json:"fill,omitempty"`
	Stroke      string   `toml:"stroke" json:"stroke,omitempty"`
	StrokeWidth *float64 `toml:"stroke_width" json:"stroke_width,omitempty"`
	Opacity     *float64 `toml:"opacity" json:"opacity,omitempty"`
}

// EdgeStyle controls how an edge connector is stroked.
type EdgeStyle struct {
	Color   string   `toml:"color" json:"color,omitempty"`
	Width   *float64 `toml:"width" json:"width,omitempty"`
	Opacity *float64 `toml:"opacity" json:"opacity,omitempty"`
}

// LabelStyle controls node label text.
type LabelStyle struct {
	Color    string   `toml:"color" json:"color,omitempty"`
	FontSize *float64 `toml:"font_size" json:"font_size,omitempty"`
	// MinRadius is the smallest on-screen radius at which a label is drawn.
	MinRadius *float64 `toml:"min_radius" json:"min_radius,omitempty"`
	Hidden    *bool    `toml:"hidden" json:"hidden,omitempty"`
}

// Highlight is applied to hovered and highlighted elements.
type Highlight struct {
	Node  NodeStyle  `toml:"node" json:"node"`
	Edge  EdgeStyle  `toml:"edge" json:"edge"`
	Label LabelStyle `toml:"label" json:"label"`
}

// DepthStyle overrides the base styles for nodes at a given depth.
type DepthStyle struct {
	Depth DepthKey   `toml:"depth" json:"depth"`
	Node  NodeStyle  `toml:"node" json:"node"`
	Edge  EdgeStyle  `toml:"edge" json:"edge"`
	Label LabelStyle `toml:"label" json:"label"`
}

// Style is the complete style object for a diagram.
type Style struct {
	Background  string       `toml:"background" json:"background,omitempty"`
	MuteOpacity *float64     `toml:"mute_opacity" json:"mute_opacity,omitempty"`
	Node        NodeStyle    `toml:"node" json:"node"`
	Edge        EdgeStyle    `toml:"edge" json:"edge"`
	Label       LabelStyle   `toml:"label" json:"label"`
	Highlight   Highlight    `toml:"highlight" json:"highlight"`
	Depths      []DepthStyle `toml:"depth" json:"depths,omitempty"`
}

// Float returns a pointer to v, for building styles in code.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Apply returns s with every field that is set in o replaced by o's value.
func (s NodeStyle) Apply(o NodeStyle) NodeStyle {
	if o.Fill != "" {
		s.Fill = o.Fill
	}
	if o.Stroke != "" {
		s.Stroke = o.Stroke
	}
	if o.StrokeWidth != nil {
		s.StrokeWidth = o.StrokeWidth
	}
	if o.Opacity != nil {
		s.Opacity = o.Opacity
	}
	return s
}

// LineWidth returns the outline width, DefaultStrokeWidth when unset.
func (s NodeStyle) LineWidth() float64 { return deref(s.StrokeWidth, DefaultStrokeWidth) }

// Alpha returns the opacity, 1 when unset.
func (s NodeStyle) Alpha() float64 { return deref(s.Opacity, 1) }

// Apply returns s with every field that is set in o replaced by o's value.
func (s EdgeStyle) Apply(o EdgeStyle) EdgeStyle {
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Width != nil {
		s.Width = o.Width
	}
	if o.Opacity != nil {
		s.Opacity = o.Opacity
	}
	return s
}

// LineWidth returns the stroke width, DefaultEdgeWidth when unset.
// An explicit zero is preserved.
func (s EdgeStyle) LineWidth() float64 { return deref(s.Width, DefaultEdgeWidth) }

// Alpha returns the opacity, 1 when unset.
func (s EdgeStyle) Alpha() float64 { return deref(s.Opacity, 1) }

// Apply returns s with every field that is set in o replaced by o's value.
func (s LabelStyle) Apply(o LabelStyle) LabelStyle {
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.FontSize != nil {
		s.FontSize = o.FontSize
	}
	if o.MinRadius != nil {
		s.MinRadius = o.MinRadius
	}
	if o.Hidden != nil {
		s.Hidden = o.Hidden
	}
	return s
}

// Size returns the font size, DefaultFontSize when unset.
func (s LabelStyle) Size() float64 { return deref(s.FontSize, DefaultFontSize) }

// Visible reports whether a label fits a node drawn with the given on-screen radius.
func (s LabelStyle) Visible(screenRadius float64) bool {
	if s.Hidden != nil && *s.Hidden {
		return false
	}
	return screenRadius >= deref(s.MinRadius, DefaultLabelRadius)
}

// Mute returns the opacity multiplier for muted elements.
func (s Style) Mute() float64 { return deref(s.MuteOpacity, DefaultMuteOpacity) }

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// DepthKey identifies the depth a DepthStyle applies to: a concrete depth
// (negative values count generations from the leaves) or the wildcard "*".
type DepthKey struct {
	Value    int
	Wildcard bool
}

// AnyDepth is the wildcard depth key.
var AnyDepth = DepthKey{Wildcard: true}

// Depth returns the key for a concrete depth.
func Depth(d int) DepthKey { return DepthKey{Value: d} }

// LeafRelative reports whether the key names a leaf-relative level.
func (k DepthKey) LeafRelative() bool { return !k.Wildcard && k.Value < 0 }

func (k DepthKey) String() string {
	if k.Wildcard {
		return "*"
	}
	return strconv.Itoa(k.Value)
}

// UnmarshalTOML accepts an integer or the string "*".
func (k *DepthKey) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*k = DepthKey{Value: int(x)}
		return nil
	case string:
		return k.parse(x)
	default:
		return fmt.Errorf("depth: unsupported value %v (%T)", v, v)
	}
}

// UnmarshalJSON accepts a number or the string "*".
func (k *DepthKey) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return k.parse(s)
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("depth: %w", err)
	}
	*k = DepthKey{Value: n}
	return nil
}

// MarshalJSON writes "*" for the wildcard and a number otherwise.
func (k DepthKey) MarshalJSON() ([]byte, error) {
	if k.Wildcard {
		return []byte(`"*"`), nil
	}
	return []byte(strconv.Itoa(k.Value)), nil
}

func (k *DepthKey) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "*" {
		*k = AnyDepth
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("depth: invalid key %q", s)
	}
	*k = DepthKey{Value: n}
	return nil
}
