package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cactus/pkg/canvas"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/scene"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// Status bar styles
var (
	statusBarStyle = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("236"))
	statusHotStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Background(lipgloss.Color("236"))
)

const (
	// wheelStep is the deltaY of one wheel notch, as browsers report it.
	wheelStep = 100
	// keyPanCells is how far one arrow key press pans, in cells.
	keyPanCells = 4
	// cellAspect is the height of a terminal cell relative to its width.
	cellAspect = 2
)

// =============================================================================
// ViewModel - Interactive pan and zoom
// =============================================================================

// ViewModel is the bubbletea model of "cactus view". Terminal mouse and key
// events drive a viewport.Controller and every frame is drawn onto a
// canvas.Grid.
type ViewModel struct {
	Scene  *scene.Scene
	Ctrl   *viewport.Controller
	Frame  scene.Options
	Cols   int
	Rows   int
	Redraw int

	// worldW is the surface width in layout units. The surface height
	// follows from the terminal aspect.
	worldW float64
	cellW  float64
	cellH  float64
	frame  string
	stats  scene.Stats
	dirty  bool
}

// NewViewModel creates a viewer for sc on a surface worldW units wide.
func NewViewModel(sc *scene.Scene, cfg viewport.Config, frame scene.Options, worldW float64) *ViewModel {
	m := &ViewModel{Scene: sc, Frame: frame, worldW: worldW, dirty: true}
	m.Ctrl = viewport.NewController(cfg, viewport.FallbackMinZoom, viewport.FallbackMaxZoom)
	m.Ctrl.HitTest = sc.HitTest()
	m.Ctrl.OnRedraw = func() {
		m.dirty = true
		m.Redraw++
	}
	m.resize(80, 24)
	return m
}

func (m *ViewModel) Init() tea.Cmd {
	return nil
}

func (m *ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.pan(0, keyPanCells)
		case "down", "j":
			m.pan(0, -keyPanCells)
		case "left", "h":
			m.pan(keyPanCells, 0)
		case "right", "l":
			m.pan(-keyPanCells, 0)
		case "+", "=":
			m.zoom(-wheelStep)
		case "-", "_":
			m.zoom(wheelStep)
		case "enter", " ":
			m.toggleHighlight()
		case "0", "r":
			m.reset()
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *ViewModel) mouse(msg tea.MouseMsg) {
	x, y := m.surface(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.Ctrl.Wheel(x, y, -wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.Ctrl.Wheel(x, y, wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.Ctrl.PointerDown(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.Ctrl.PointerUp()
	case msg.Action == tea.MouseActionMotion:
		if msg.Y >= m.Rows {
			m.Ctrl.PointerLeave()
			return
		}
		m.Ctrl.PointerMove(x, y)
	}
}

// surface maps a terminal cell to the center of that cell on the surface.
func (m *ViewModel) surface(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * m.cellW, (float64(row) + 0.5) * m.cellH
}

// pan drags the view by (dc, dr) cells through the controller so that key
// pans obey the same rules as pointer drags.
func (m *ViewModel) pan(dc, dr int) {
	cx, cy := m.surface(m.Cols/2, m.Rows/2)
	m.Ctrl.PointerDown(cx, cy)
	m.Ctrl.PointerMove(cx+float64(dc)*m.cellW, cy+float64(dr)*m.cellH)
	m.Ctrl.PointerUp()
}

func (m *ViewModel) zoom(deltaY float64) {
	cx, cy := m.surface(m.Cols/2, m.Rows/2)
	m.Ctrl.Wheel(cx, cy, deltaY)
}

func (m *ViewModel) reset() {
	st := m.Ctrl.State
	m.Ctrl.State = viewport.NewState(st.MinZoom, st.MaxZoom)
	m.Ctrl.State.Hovered = st.Hovered
	m.dirty = true
}

// toggleHighlight highlights or un-highlights the hovered node.
func (m *ViewModel) toggleHighlight() {
	id := m.Ctrl.State.Hovered
	if id == "" {
		return
	}
	if m.Frame.Highlighted == nil {
		m.Frame.Highlighted = make(map[hierarchy.NodeID]struct{})
	}
	if _, ok := m.Frame.Highlighted[id]; ok {
		delete(m.Frame.Highlighted, id)
	} else {
		m.Frame.Highlighted[id] = struct{}{}
	}
	m.dirty = true
}

// resize fits the surface to a terminal of width×height cells, keeping one
// row for the status bar.
func (m *ViewModel) resize(width, height int) {
	m.Cols, m.Rows = max(width, 1), max(height-1, 1)
	m.cellW = m.worldW / float64(m.Cols)
	m.cellH = m.cellW * cellAspect
	m.Frame.Width = m.worldW
	m.Frame.Height = m.cellH * float64(m.Rows)
	m.Ctrl.SetZoomLimits(m.Scene.ZoomLimits(m.Frame.Width, m.Frame.Height))
	m.dirty = true
}

func (m *ViewModel) View() string {
	if m.dirty {
		grid := canvas.NewGrid(m.Cols, m.Rows, m.cellW, m.cellH)
		m.stats = m.Scene.Draw(grid, m.Ctrl.State, m.Frame)
		m.frame = grid.Render()
		m.dirty = false
	}
	return m.frame + "\n" + m.statusBar()
}

func (m *ViewModel) statusBar() string {
	st := m.Ctrl.State
	parts := []string{
		statusKeyStyle.Render(" zoom ") + statusBarStyle.Render(fmt.Sprintf("%.2f", st.Zoom)),
		statusKeyStyle.Render(" pan ") + statusBarStyle.Render(fmt.Sprintf("%.0f,%.0f", st.PanX, st.PanY)),
		statusKeyStyle.Render(" " + m.Ctrl.Mode().String() + " "),
		statusBarStyle.Render(fmt.Sprintf("%d nodes %d edges", m.stats.NodesDrawn, m.stats.EdgesDrawn)),
	}
	if st.Hovered != "" {
		parts = append(parts, statusHotStyle.Render(" "+string(st.Hovered)+" "))
	}
	bar := strings.Join(parts, statusBarStyle.Render(" │"))
	help := statusKeyStyle.Render(" drag/arrows pan  wheel/+- zoom  ⏎ highlight  q quit ")
	if gap := m.Cols - lipgloss.Width(bar) - lipgloss.Width(help); gap > 0 {
		bar += statusBarStyle.Render(strings.Repeat(" ", gap)) + help
	}
	return bar
}
