package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds depth, leaf-relative level and radius to node labels.
	// When false, only the display name is shown.
	Detailed bool
	// RankDir is the Graphviz rank direction; empty means "BT" so roots sit
	// at the bottom like the cactus.
	RankDir string
}

// ToDOT converts an indexed hierarchy to Graphviz DOT. Parent links are
// solid edges that drive the ranking; extra edges are dashed and do not
// constrain ranks. Node fills and outlines come from style, resolved per
// depth.
func ToDOT(ix *hierarchy.Index, edges []hierarchy.Edge, style styles.Style, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "BT"
	}
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, fixedsize=false];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range ix.Nodes() {
		attrs := fmtAttrs(ix, n, style, fmtLabel(ix, n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range ix.TreeEdges() {
		fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n", e.Source, e.Target)
	}
	edgeColor := canvas.NormalizeColor(style.Edge.Color)
	for _, e := range edges {
		if _, ok := ix.Node(e.Source); !ok {
			continue
		}
		if _, ok := ix.Node(e.Target); !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, constraint=false, color=%q];\n", e.Source, e.Target, edgeColor)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(ix *hierarchy.Index, n *hierarchy.RenderedNode, detailed bool) string {
	name := n.Name
	if name == "" {
		name = string(n.Key())
	}
	if !detailed {
		return name
	}
	parts := []string{fmt.Sprintf("depth: %d", n.Depth)}
	if g, ok := ix.Generation(n.Key()); ok {
		parts = append(parts, fmt.Sprintf("level: %d", g))
	}
	parts = append(parts, fmt.Sprintf("radius: %.1f", n.Radius))
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(ix *hierarchy.Index, n *hierarchy.RenderedNode, style styles.Style, label string) []string {
	ns := style.Node
	if ds, ok := ix.DepthStyle(n.Depth); ok {
		ns = ns.Apply(ds.Node)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill := canvas.NormalizeColor(ns.Fill); fill != "none" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	} else {
		attrs = append(attrs, "fillcolor=white")
	}
	if stroke := canvas.NormalizeColor(ns.Stroke); stroke != "none" {
		attrs = append(attrs, fmt.Sprintf("color=%q", stroke))
	}
	if ix.IsLeaf(n.Key()) {
		attrs = append(attrs, "peripheries=1")
	} else {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg header with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
