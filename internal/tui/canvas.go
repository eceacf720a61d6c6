package tui

import (
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/ink"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
)

// =============================================================================
// Ink Canvas
// =============================================================================

// Surface pixels covered by one terminal cell. A cell shows two half-block
// pixels stacked, each cellW×cellH/2.
const (
	cellW = 4
	cellH = 8
)

// canvas is the draw-mode state: which images of the open record can be
// drawn on and which one is shown.
type canvas struct {
	urls       []string
	idx        int
	confirming bool
}

func (c canvas) url() string {
	if c.idx < 0 || c.idx >= len(c.urls) {
		return ""
	}
	return c.urls[c.idx]
}

// toolbarButtons are drawn on the first canvas row, left to right. Each
// maps to the draw-mode key with the same effect.
var toolbarButtons = []struct{ key, label string }{
	{"p", "pen"},
	{"e", "eraser"},
	{"c", "clear"},
	{"tab", "next image"},
	{"esc", "done"},
}

// toolbarKey returns the key of the button at column x.
func toolbarKey(x int) (string, bool) {
	start := 0
	for _, b := range toolbarButtons {
		end := start + len(b.label) + 2
		if x >= start && x < end {
			return b.key, true
		}
		start = end + 1
	}
	return "", false
}

// drawableImages lists the images of it that are on screen: the puzzle,
// open hints and an open solution.
func drawableImages(it session.Item) []string {
	imgs := it.Record.Images
	urls := append([]string(nil), imgs.Puzzle...)
	for k := 1; k <= disclosure.HintCount; k++ {
		if it.Hints[k-1] == disclosure.UnlockedOpen {
			urls = append(urls, imgs.Hint(k)...)
		}
	}
	if it.SolutionOpen {
		urls = append(urls, imgs.Solution...)
	}
	return urls
}

// canvasTop is the screen row of the toolbar, which is surface row 0.
func canvasTop() int { return headerHeight + 1 }

// canvasCells is the canvas size in cells, toolbar row included. One line
// of the list area is kept for the title.
func (m Model) canvasCells() (int, int) {
	return max(1, m.width), max(2, m.viewport.Height-1)
}

// canvasSize is the canvas box in surface pixels.
func (m Model) canvasSize() (int, int) {
	cols, rows := m.canvasCells()
	return cols * cellW, rows * cellH
}

// layer returns the session layer for the shown image, laid out to the
// canvas box.
func (m Model) layer() (*ink.Layer, bool) {
	l, ok := m.sess.Layer(m.canvas.url())
	if !ok {
		return nil, false
	}
	w, h := m.canvasSize()
	l.Relayout(w, h)
	l.Toolbar = image.Rect(0, 0, w, cellH)
	return l, true
}

// startDrawing enters draw mode on the first drawable image of the open
// record.
func (m *Model) startDrawing() {
	if !m.ready {
		return
	}
	for _, it := range m.page.Items {
		if !it.Open {
			continue
		}
		urls := drawableImages(it)
		if len(urls) == 0 {
			return
		}
		m.canvas = canvas{urls: urls}
		if _, ok := m.layer(); ok {
			m.drawing = true
		}
		return
	}
}

// handleDrawKey maps keys while drawing. A pending clear takes y to confirm
// and anything else to cancel.
func (m Model) handleDrawKey(key string) (tea.Model, tea.Cmd) {
	l, ok := m.layer()
	if !ok {
		m.drawing = false
		cmd := m.refresh()
		return m, cmd
	}

	if m.canvas.confirming {
		m.canvas.confirming = false
		if key == "y" {
			l.Clear(func() bool { return true })
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "d", "q":
		m.drawing = false
		cmd := m.refresh()
		return m, cmd
	case "p":
		l.SetTool(ink.Pen)
	case "e":
		l.SetTool(ink.Eraser)
	case "c":
		m.canvas.confirming = true
	case "tab":
		m.canvas.idx = (m.canvas.idx + 1) % len(m.canvas.urls)
		m.layer()
	}
	return m, nil
}

// handleMouse turns mouse input over the canvas into pointer events on the
// layer. Presses on the toolbar row fall inside Layer.Toolbar, so they never
// start a stroke, and also trigger the button under the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l, ok := m.layer()
	if !ok {
		return m, nil
	}

	var t ink.EventType
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		t = ink.EventDown
	case tea.MouseActionMotion:
		t = ink.EventMove
	case tea.MouseActionRelease:
		t = ink.EventUp
	default:
		return m, nil
	}
	l.Mouse(ink.MouseEvent{
		Type: t,
		X:    float64(msg.X*cellW + cellW/2),
		Y:    float64((msg.Y-canvasTop())*cellH + cellH/2),
	})

	if t == ink.EventDown && msg.Y == canvasTop() {
		if key, ok := toolbarKey(msg.X); ok {
			return m.handleDrawKey(key)
		}
	}
	return m, nil
}

// renderCanvas draws the title, the toolbar and the ink as half blocks.
func (m Model) renderCanvas() string {
	st := m.styles()
	l, ok := m.layer()
	if !ok {
		return ""
	}

	lines := make([]string, 0, m.viewport.Height)
	if m.canvas.confirming {
		lines = append(lines, st.infeasible.Render("Clear all ink on this image? y/n"))
	} else {
		lines = append(lines, st.section.Render("✎ "+l.Tool().String())+" "+st.dim.Render(m.canvas.url()))
	}

	buttons := make([]string, 0, len(toolbarButtons))
	for _, b := range toolbarButtons {
		label := "[" + b.label + "]"
		if b.label == l.Tool().String() {
			buttons = append(buttons, st.pageActive.Render(label))
		} else {
			buttons = append(buttons, st.helpKey.Render(label))
		}
	}
	lines = append(lines, strings.Join(buttons, " "))

	surface := l.Surface()
	inked := func(x0, y0, x1, y1 int) bool {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if surface.At(x, y).A > 0 {
					return true
				}
			}
		}
		return false
	}
	cols, rows := m.canvasCells()
	var row strings.Builder
	for r := 1; r < rows; r++ {
		row.Reset()
		y := r * cellH
		for c := 0; c < cols; c++ {
			x := c * cellW
			top := inked(x, y, x+cellW, y+cellH/2)
			bottom := inked(x, y+cellH/2, x+cellW, y+cellH)
			switch {
			case top && bottom:
				row.WriteString("█")
			case top:
				row.WriteString("▀")
			case bottom:
				row.WriteString("▄")
			default:
				row.WriteString(" ")
			}
		}
		lines = append(lines, st.ink.Render(row.String()))
	}
	return strings.Join(lines, "\n")
}
