package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/viewport"
)

func newTestViewModel(t *testing.T) *ViewModel {
	t.Helper()
	doc, err := pipeline.BytesSource{Data: []byte(treeJSON)}.Load(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{}
	opts.SetDefaults()
	l, err := pipeline.ComputeLayout(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	m := NewViewModel(pipeline.NewScene(l, opts), viewport.DefaultConfig(), pipeline.FrameOptions(l.Width, l.Height, opts), l.Width)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 21})
	return m
}

func TestViewModelResize(t *testing.T) {
	m := newTestViewModel(t)
	if m.Cols != 60 || m.Rows != 20 {
		t.Errorf("grid = %dx%d, want 60x20 with one status row", m.Cols, m.Rows)
	}
	view := m.View()
	if lines := strings.Count(view, "\n"); lines != 20 {
		t.Errorf("view has %d line breaks, want 20", lines)
	}
	if !strings.Contains(view, "zoom") {
		t.Error("status bar should show the zoom")
	}
}

func TestViewModelWheelZooms(t *testing.T) {
	m := newTestViewModel(t)
	before := m.Ctrl.State.Zoom
	redraws := m.Redraw

	m.Update(tea.MouseMsg{X: 30, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if m.Ctrl.State.Zoom <= before {
		t.Errorf("zoom = %g after wheel up, want > %g", m.Ctrl.State.Zoom, before)
	}
	if m.Redraw <= redraws {
		t.Error("wheel zoom should request a redraw")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	fresh := viewport.NewState(m.Ctrl.State.MinZoom, m.Ctrl.State.MaxZoom)
	if m.Ctrl.State.Zoom != fresh.Zoom || m.Ctrl.State.PanX != 0 {
		t.Errorf("reset left zoom=%g panX=%g", m.Ctrl.State.Zoom, m.Ctrl.State.PanX)
	}
}

func TestViewModelDragPans(t *testing.T) {
	m := newTestViewModel(t)

	m.Update(tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.Ctrl.Mode() != viewport.Panning {
		t.Fatalf("mode = %v after press, want panning", m.Ctrl.Mode())
	}
	m.Update(tea.MouseMsg{X: 14, Y: 5, Action: tea.MouseActionMotion})
	if want := 4 * m.cellW; !approx(m.Ctrl.State.PanX, want) {
		t.Errorf("PanX = %g, want %g", m.Ctrl.State.PanX, want)
	}
	m.Update(tea.MouseMsg{X: 14, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if m.Ctrl.Mode() != viewport.Idle {
		t.Errorf("mode = %v after release, want idle", m.Ctrl.Mode())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if want := 8 * m.cellW; !approx(m.Ctrl.State.PanX, want) {
		t.Errorf("PanX after left key = %g, want %g", m.Ctrl.State.PanX, want)
	}
}

func TestViewModelHighlightHovered(t *testing.T) {
	m := newTestViewModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Frame.Highlighted) != 0 {
		t.Error("enter without a hovered node should not highlight anything")
	}

	m.Ctrl.State.Hovered = "a"
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.Frame.Highlighted["a"]; !ok {
		t.Error("enter should highlight the hovered node")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.Frame.Highlighted["a"]; ok {
		t.Error("second enter should clear the highlight")
	}
}

func TestViewModelQuit(t *testing.T) {
	m := newTestViewModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
