package styles

import (
	"cmp"
	"slices"
)

// Default returns the built-in style.
func Default() Style {
	return Style{
		Background:  "#ffffff",
		MuteOpacity: Float(DefaultMuteOpacity),
		Node: NodeStyle{
			Fill:        "#dde6f0",
			Stroke:      "#4a6785",
			StrokeWidth: Float(DefaultStrokeWidth),
			Opacity:     Float(1),
		},
		Edge: EdgeStyle{
			Color:   "#c0392b",
			Width:   Float(DefaultEdgeWidth),
			Opacity: Float(0.6),
		},
		Label: LabelStyle{
			Color:     "#1f2933",
			FontSize:  Float(DefaultFontSize),
			MinRadius: Float(DefaultLabelRadius),
			Hidden:    Bool(false),
		},
		Highlight: Highlight{
			Node: NodeStyle{Stroke: "#e67e22", StrokeWidth: Float(2)},
			Edge: EdgeStyle{Color: "#e67e22", Width: Float(2), Opacity: Float(1)},
		},
	}
}

// Merge layers user over the defaults and expands wildcard depth entries into
// one concrete entry per depth in [0, maxDepth]. Wildcard entries are applied
// first, in input order; explicit entries then override them field by field.
// Negative (leaf-relative) entries are kept as concrete keys. The result has no
// wildcard entries and is sorted by depth.
func Merge(user Style, maxDepth int) Style {
	out := Default()
	if user.Background != "" {
		out.Background = user.Background
	}
	if user.MuteOpacity != nil {
		out.MuteOpacity = user.MuteOpacity
	}
	out.Node = out.Node.Apply(user.Node)
	out.Edge = out.Edge.Apply(user.Edge)
	out.Label = out.Label.Apply(user.Label)
	out.Highlight.Node = out.Highlight.Node.Apply(user.Highlight.Node)
	out.Highlight.Edge = out.Highlight.Edge.Apply(user.Highlight.Edge)
	out.Highlight.Label = out.Highlight.Label.Apply(user.Highlight.Label)

	byDepth := make(map[int]*DepthStyle)
	entry := func(d int) *DepthStyle {
		e, ok := byDepth[d]
		if !ok {
			e = &DepthStyle{Depth: Depth(d)}
			byDepth[d] = e
		}
		return e
	}
	apply := func(e *DepthStyle, src DepthStyle) {
		e.Node = e.Node.Apply(src.Node)
		e.Edge = e.Edge.Apply(src.Edge)
		e.Label = e.Label.Apply(src.Label)
	}

	for _, ds := range user.Depths {
		if !ds.Depth.Wildcard {
			continue
		}
		for d := 0; d <= maxDepth; d++ {
			apply(entry(d), ds)
		}
	}
	for _, ds := range user.Depths {
		if ds.Depth.Wildcard {
			continue
		}
		apply(entry(ds.Depth.Value), ds)
	}

	out.Depths = make([]DepthStyle, 0, len(byDepth))
	for _, e := range byDepth {
		out.Depths = append(out.Depths, *e)
	}
	slices.SortFunc(out.Depths, func(a, b DepthStyle) int {
		return cmp.Compare(a.Depth.Value, b.Depth.Value)
	})
	return out
}

// LeafRelative returns the leaf-relative entries keyed by their negative level.
func (s Style) LeafRelative() map[int]DepthStyle {
	out := make(map[int]DepthStyle)
	for _, ds := range s.Depths {
		if ds.Depth.LeafRelative() {
			out[ds.Depth.Value] = ds
		}
	}
	return out
}
