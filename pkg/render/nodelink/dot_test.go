package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/styles"
)

func index(t *testing.T) *hierarchy.Index {
	t.Helper()
	trees := []hierarchy.TreeNode{
		{ID: "root", Name: "Root"},
		{ID: "a", Parent: "root"},
		{ID: "b", Parent: "root"},
	}
	nodes := make([]*hierarchy.RenderedNode, len(trees))
	for i := range trees {
		depth := 1
		if trees[i].IsRoot() {
			depth = 0
		}
		nodes[i] = &hierarchy.RenderedNode{ID: trees[i].ID, Name: trees[i].DisplayName(), Depth: depth, Radius: 2, Node: &trees[i]}
	}
	style := styles.Merge(styles.Style{
		Depths: []styles.DepthStyle{{Depth: styles.Depth(1), Node: styles.NodeStyle{Fill: "#ff0000"}}},
	}, 1)
	return hierarchy.Build(nodes, style)
}

func TestToDOT(t *testing.T) {
	style := styles.Merge(styles.Style{}, 1)
	dot := ToDOT(index(t), []hierarchy.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "ghost"}}, style, Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=BT;",
		`"root" [label="Root"`,
		`"root" -> "a" [arrowhead=none];`,
		`"a" -> "b" [style=dashed, constraint=false`,
		`fillcolor="#ff0000"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("edges to unknown nodes should be skipped")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(index(t), nil, styles.Default(), Options{Detailed: true, RankDir: "TB"})
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("RankDir not applied")
	}
	if !strings.Contains(dot, `depth: 1\nlevel: -1`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Error("input without viewBox should pass through")
	}
}
