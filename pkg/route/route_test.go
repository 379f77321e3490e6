package route

import (
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/styles"
)

type fixture struct {
	id, parent string
	x, y       float64
	depth      int
}

func build(style styles.Style, fixtures ...fixture) (*hierarchy.Index, map[hierarchy.NodeID]*hierarchy.RenderedNode) {
	nodes := make([]*hierarchy.RenderedNode, 0, len(fixtures))
	byID := make(map[hierarchy.NodeID]*hierarchy.RenderedNode)
	for _, s := range fixtures {
		tn := &hierarchy.TreeNode{ID: hierarchy.NodeID(s.id), Parent: hierarchy.NodeID(s.parent)}
		r := &hierarchy.RenderedNode{ID: tn.ID, X: s.x, Y: s.y, Depth: s.depth, Radius: 2, Node: tn}
		nodes = append(nodes, r)
		byID[tn.ID] = r
	}
	return hierarchy.Build(nodes, style), byID
}

// scenario is root→a,b; a→c,d; b→e.
func scenario(style styles.Style) (*hierarchy.Index, map[hierarchy.NodeID]*hierarchy.RenderedNode) {
	return build(style,
		fixture{"root", "", 0, 0, 0},
		fixture{"a", "root", -10, 10, 1},
		fixture{"b", "root", 10, 10, 1},
		fixture{"c", "a", -15, 20, 2},
		fixture{"d", "a", -5, 20, 2},
		fixture{"e", "b", 10, 20, 2},
	)
}

func pathIDs(p []*hierarchy.RenderedNode) []hierarchy.NodeID {
	out := make([]hierarchy.NodeID, len(p))
	for i, n := range p {
		out[i] = n.Key()
	}
	return out
}

func ids(s ...hierarchy.NodeID) []hierarchy.NodeID { return s }

func TestBuildHierarchicalPath(t *testing.T) {
	ix, n := scenario(styles.Style{})

	tests := []struct {
		from, to hierarchy.NodeID
		want     []hierarchy.NodeID
	}{
		{"c", "e", ids("c", "a", "root", "b", "e")},
		{"e", "c", ids("e", "b", "root", "a", "c")},
		{"c", "d", ids("c", "a", "d")},
		{"c", "root", ids("c", "a", "root")},
		{"root", "d", ids("root", "a", "d")},
		{"a", "a", ids("a")},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"-"+string(tt.to), func(t *testing.T) {
			got := pathIDs(BuildHierarchicalPath(n[tt.from], n[tt.to], ix, ix.Paths()))
			if !slices.Equal(got, tt.want) {
				t.Errorf("path = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildHierarchicalPathMemoized(t *testing.T) {
	ix, n := scenario(styles.Style{})
	cache := ix.Paths()

	first := BuildHierarchicalPath(n["c"], n["e"], ix, cache)
	if cache.Len() != 1 {
		t.Fatalf("cache.Len() = %d, want 1", cache.Len())
	}
	if _, ok := cache.Get("e", "c"); ok {
		t.Error("cache key should be order-sensitive")
	}
	second := BuildHierarchicalPath(n["c"], n["e"], ix, cache)
	if &first[0] != &second[0] {
		t.Error("second call should return the memoized slice")
	}
}

func TestBuildHierarchicalPathDisconnected(t *testing.T) {
	ix, n := build(styles.Style{},
		fixture{"a", "", 0, 0, 0},
		fixture{"b", "missing", 5, 5, 0},
	)
	got := pathIDs(BuildHierarchicalPath(n["a"], n["b"], ix, nil))
	if !slices.Equal(got, ids("a", "b")) {
		t.Errorf("path = %v, want direct pair", got)
	}
}

func TestBuildHierarchicalPathCycleTerminates(t *testing.T) {
	ix, n := build(styles.Style{},
		fixture{"x", "y", 0, 0, 1},
		fixture{"y", "x", 1, 0, 1},
		fixture{"z", "", 2, 0, 0},
	)
	got := pathIDs(BuildHierarchicalPath(n["x"], n["z"], ix, nil))
	if !slices.Equal(got, ids("x", "z")) {
		t.Errorf("path = %v, want direct pair", got)
	}
}

func TestBuildHierarchicalPathNil(t *testing.T) {
	if p := BuildHierarchicalPath(nil, nil, nil, nil); p != nil {
		t.Errorf("path = %v, want nil", p)
	}
}

func TestPathToCoordinatesEmpty(t *testing.T) {
	s, tg := r2.Vec{X: 1, Y: 2}, r2.Vec{X: 3, Y: 4}
	got := PathToCoordinates(nil, nil, nil, s, tg)
	if !slices.Equal(got, []r2.Vec{s, tg}) {
		t.Errorf("got %v, want [S T]", got)
	}
}

func TestPathToCoordinatesFallsBackToAncestor(t *testing.T) {
	ix, n := scenario(styles.Style{})
	coords := ix.Coordinates()
	delete(coords, "a")

	path := BuildHierarchicalPath(n["c"], n["e"], ix, nil)
	got := PathToCoordinates(path, coords, ix, r2.Vec{}, r2.Vec{})
	want := []r2.Vec{
		{X: -15, Y: 20}, // c
		{X: 0, Y: 0},    // a resolves to root, merged with root
		{X: 10, Y: 10},  // b
		{X: 10, Y: 20},  // e
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPathToCoordinatesNoAdjacentDuplicates(t *testing.T) {
	ix, n := scenario(styles.Style{})
	coords := map[hierarchy.NodeID]r2.Vec{
		"c": {X: 1, Y: 1}, "a": {X: 1, Y: 1}, "root": {X: 2, Y: 2},
		"b": {X: 1, Y: 1}, "e": {X: 1, Y: 1},
	}
	path := BuildHierarchicalPath(n["c"], n["e"], ix, nil)
	got := PathToCoordinates(path, coords, ix, r2.Vec{}, r2.Vec{})
	want := []r2.Vec{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Errorf("adjacent duplicate at %d", i)
		}
	}
}

func TestShouldFilterEdge(t *testing.T) {
	ix, _ := scenario(styles.Style{})
	edge := hierarchy.Edge{Source: "c", Target: "e"}

	tests := []struct {
		name    string
		hovered hierarchy.NodeID
		ix      *hierarchy.Index
		want    bool
	}{
		{"no hover", "", ix, false},
		{"hover source", "c", ix, false},
		{"hover target", "e", ix, false},
		{"hover other leaf", "d", ix, true},
		{"hover interior", "a", ix, false},
		{"hover root", "root", ix, false},
		{"no index treats hover as leaf", "a", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldFilterEdge(edge, tt.hovered, tt.ix); got != tt.want {
				t.Errorf("ShouldFilterEdge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeVisibleEdgeNodeIDs(t *testing.T) {
	ix, _ := scenario(styles.Style{})
	edges := []hierarchy.Edge{
		{Source: "c", Target: "e"},
		{Source: "d", Target: "e"},
		{Source: "c", Target: "ghost"},
	}

	got := ComputeVisibleEdgeNodeIDs(edges, ix.Coordinates(), "d", ix)
	if len(got) != 2 {
		t.Errorf("visible = %v, want {d e}", got)
	}
	for _, id := range ids("d", "e") {
		if _, ok := got[id]; !ok {
			t.Errorf("missing %s", id)
		}
	}

	all := ComputeVisibleEdgeNodeIDs(edges, nil, "", ix)
	if len(all) != 4 {
		t.Errorf("without hover = %v, want 4 ids", all)
	}
}

func edgeContext(ix *hierarchy.Index, style styles.Style) *EdgeContext {
	return &EdgeContext{Coords: ix.Coordinates(), Index: ix, Style: style}
}

func TestDrawEdgeStraight(t *testing.T) {
	ix, n := scenario(styles.Style{})
	rec := canvas.NewRecorder()

	if !DrawEdge(rec, hierarchy.Edge{Source: "root", Target: "c"}, n["root"], n["c"], edgeContext(ix, styles.Style{})) {
		t.Fatal("DrawEdge returned false")
	}
	if rec.Count("stroke") != 1 || rec.Count("lineTo") != 1 || rec.Count("quadraticCurveTo") != 0 {
		t.Errorf("commands = %v", rec.Commands)
	}
	// Deeper endpoint is the source
	if mv, _ := rec.Last("moveTo"); mv.Args[0] != -15 || mv.Args[1] != 20 {
		t.Errorf("moveTo = %v, want c's center", mv.Args)
	}
	if rec.State() != canvas.DefaultState() {
		t.Error("paint state should be restored")
	}
}

func TestDrawEdgeBundled(t *testing.T) {
	ix, n := scenario(styles.Style{})
	rec := canvas.NewRecorder()
	ec := edgeContext(ix, styles.Style{})
	ec.Bundling = 1

	if !DrawEdge(rec, hierarchy.Edge{Source: "c", Target: "e"}, n["c"], n["e"], ec) {
		t.Fatal("DrawEdge returned false")
	}
	// Five route points give three quadratic segments
	if got := rec.Count("quadraticCurveTo"); got != 3 {
		t.Errorf("quadraticCurveTo count = %d, want 3", got)
	}
	if ix.Paths().Len() != 1 {
		t.Error("bundled draw should memoize the route in the index cache")
	}
}

func TestDrawEdgeStyleLayers(t *testing.T) {
	style := styles.Style{
		Edge: styles.EdgeStyle{Color: "#111111", Width: styles.Float(1), Opacity: styles.Float(0.8)},
		Highlight: styles.Highlight{
			Edge: styles.EdgeStyle{Color: "#ff0000", Width: styles.Float(3)},
		},
		Depths: []styles.DepthStyle{
			{Depth: styles.Depth(2), Edge: styles.EdgeStyle{Color: "#222222"}},
		},
	}
	ix, n := scenario(style)
	edge := hierarchy.Edge{Source: "c", Target: "e"}

	tests := []struct {
		name      string
		configure func(*EdgeContext)
		color     string
		width     float64
		alpha     float64
	}{
		{"depth", func(*EdgeContext) {}, "#222222", 1, 0.8},
		{"hover", func(ec *EdgeContext) { ec.Hovered = "e" }, "#ff0000", 3, 0.8},
		{"highlighted set", func(ec *EdgeContext) {
			ec.Highlighted = map[hierarchy.NodeID]struct{}{"c": {}}
		}, "#ff0000", 3, 0.8},
		{"muted", func(ec *EdgeContext) { ec.Muted = true; ec.MuteOpacity = 0.5 }, "#222222", 1, 0.4},
		{"muted default", func(ec *EdgeContext) { ec.Muted = true }, "#222222", 1, 0.8 * styles.DefaultMuteOpacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := canvas.NewRecorder()
			ec := edgeContext(ix, style)
			tt.configure(ec)
			if !DrawEdge(rec, edge, n["c"], n["e"], ec) {
				t.Fatal("DrawEdge returned false")
			}
			st, _ := rec.Last("stroke")
			if st.State.StrokeStyle != tt.color {
				t.Errorf("color = %q, want %q", st.State.StrokeStyle, tt.color)
			}
			if st.State.LineWidth != tt.width {
				t.Errorf("width = %v, want %v", st.State.LineWidth, tt.width)
			}
			if math.Abs(st.State.GlobalAlpha-tt.alpha) > 1e-9 {
				t.Errorf("alpha = %v, want %v", st.State.GlobalAlpha, tt.alpha)
			}
		})
	}
}

func TestDrawEdgeNoOps(t *testing.T) {
	zero := styles.Style{Edge: styles.EdgeStyle{Width: styles.Float(0)}}
	ix, n := scenario(zero)
	edge := hierarchy.Edge{Source: "c", Target: "e"}

	rec := canvas.NewRecorder()
	if DrawEdge(rec, edge, n["c"], n["e"], edgeContext(ix, zero)) {
		t.Error("zero width should not draw")
	}
	if len(rec.Commands) != 0 {
		t.Errorf("zero width issued commands: %v", rec.Commands)
	}
	if DrawEdge(nil, edge, n["c"], n["e"], edgeContext(ix, styles.Style{})) {
		t.Error("nil context should not draw")
	}
	if DrawEdge(rec, edge, n["c"], n["e"], nil) {
		t.Error("nil edge context should not draw")
	}

	culled := edgeContext(ix, styles.Style{})
	culled.Bounds = &r2.Box{Min: r2.Vec{X: 100, Y: 100}, Max: r2.Vec{X: 200, Y: 200}}
	if DrawEdge(rec, edge, n["c"], n["e"], culled) {
		t.Error("edge outside bounds should be culled")
	}
}

func TestBundle(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 0}}

	if got := Bundle(pts, 1); !slices.Equal(got, pts) {
		t.Errorf("beta 1 = %v, want route", got)
	}
	if got := Bundle(pts, 0); got[1] != (r2.Vec{X: 5, Y: 0}) {
		t.Errorf("beta 0 midpoint = %v, want on the chord", got[1])
	}
	if got := Bundle(pts, 0.5); got[1] != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("beta 0.5 midpoint = %v", got[1])
	}
}

func TestTraceControlRatio(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 10}}
	rec := canvas.NewRecorder()
	Trace(rec, pts, CurveOptions{ControlRatio: 0.25})

	first := rec.Commands[1]
	if first.Op != "quadraticCurveTo" {
		t.Fatalf("op = %s", first.Op)
	}
	// Joint sits a quarter of the way from (10,0) to (10,10)
	if want := []float64{10, 0, 10, 2.5}; !slices.Equal(first.Args, want) {
		t.Errorf("args = %v, want %v", first.Args, want)
	}
	last := rec.Commands[len(rec.Commands)-1]
	if last.Args[2] != 20 || last.Args[3] != 10 {
		t.Errorf("curve should end at the last point, got %v", last.Args)
	}
}
