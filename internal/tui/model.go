// Package tui is the interactive terminal browser for puzzlebook.
//
// The model observes a session.Session and turns key presses into session
// events; it owns no catalog or disclosure logic of its own. All work runs
// synchronously inside Update. The only deferred work is the flash that
// highlights a record after a random jump.
//
// With a record open, d switches the list area to an ink canvas over one of
// its visible images. Mouse drags draw strokes through the session's ink
// layer, which is laid out to the canvas box and again on every resize.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/internal/session"
)

// FlashDuration is how long a jumped-to record stays highlighted.
const FlashDuration = 600 * time.Millisecond

// pillWidth is the width of the pager progress marker.
const pillWidth = 3

// Layout rows outside the scrolling list.
const (
	headerHeight = 3
	footerHeight = 5
)

// =============================================================================
// Messages
// =============================================================================

// flashDoneMsg ends the flash started with the same sequence number.
type flashDoneMsg struct {
	seq int
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the catalog browser.
type Model struct {
	sess   *session.Session
	logger zerolog.Logger

	search    textinput.Model
	searching bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	page   session.Page
	cursor int
	// itemLines holds the first content line of each item, for scrolling.
	itemLines []int

	pillOffset int

	flashID  int
	flashSeq int

	canvas  canvas
	drawing bool

	quitting bool
}

// New returns a Model over sess.
func New(sess *session.Session, logger zerolog.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by #id, title, reason or solution"
	ti.CharLimit = 256
	ti.SetValue(sess.View().Query())

	m := Model{
		sess:   sess,
		logger: logger,
		search: ti,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := max(1, m.height-headerHeight-footerHeight)
		if !m.ready {
			m.viewport = viewport.New(m.width, listHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = listHeight
		}
		m.search.Width = max(10, m.width-4)
		if m.drawing {
			if l, ok := m.sess.Layer(m.canvas.url()); ok {
				l.Relayout(m.canvasSize())
			}
		}
		cmd := m.refresh()
		return m, cmd

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashID = 0
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.drawing {
			return m.handleDrawKey(msg.String())
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.drawing {
			return m.handleMouse(msg)
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading…\n"
	}
	body := m.viewport.View()
	if m.drawing {
		body = m.renderCanvas()
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

// Page returns the snapshot the model last drew.
func (m Model) Page() session.Page { return m.page }

// Cursor returns the index of the selected item on the page.
func (m Model) Cursor() int { return m.cursor }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searching }

// PillOffset returns the current offset of the pager progress marker.
func (m Model) PillOffset() int { return m.pillOffset }

// Drawing returns the image being drawn on, if the model is in draw mode.
func (m Model) Drawing() (string, bool) {
	if !m.drawing {
		return "", false
	}
	return m.canvas.url(), true
}

// FlashID returns the id of the highlighted record, or 0.
func (m Model) FlashID() int { return m.flashID }

// =============================================================================
// Refresh
// =============================================================================

// refresh re-reads the session, applies any pending render effect and
// re-lays out the list, pager marker and viewport.
func (m *Model) refresh() tea.Cmd {
	m.page = m.sess.Page()
	m.cursor = max(0, min(m.cursor, len(m.page.Items)-1))

	var cmd tea.Cmd
	effect, focus := m.sess.TakeEffect()
	switch effect {
	case session.EffectScrollTop:
		m.cursor = 0
		if m.ready {
			m.viewport.GotoTop()
		}
	case session.EffectScrollIntoView:
		for i, it := range m.page.Items {
			if it.Record.ID == focus {
				m.cursor = i
			}
		}
		m.flashSeq++
		m.flashID = focus
		seq := m.flashSeq
		cmd = tea.Tick(FlashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
	}

	m.pillOffset = m.page.Pager.PillOffset(m.trackWidth(), pillWidth)
	if m.ready {
		content, lines := m.renderList()
		m.itemLines = lines
		m.viewport.SetContent(content)
		m.scrollToCursor()
	}
	return cmd
}

func (m Model) trackWidth() int {
	return max(pillWidth, m.width-2)
}

// scrollToCursor keeps the selected item inside the viewport.
func (m *Model) scrollToCursor() {
	if m.cursor >= len(m.itemLines) {
		return
	}
	line := m.itemLines[m.cursor]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}
