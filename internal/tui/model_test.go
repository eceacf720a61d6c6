package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/ink"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

func makeRecords(n int) []types.Record {
	out := make([]types.Record, n)
	for i := range out {
		id := i + 1
		out[i] = types.Record{
			ID:           id,
			Title:        fmt.Sprintf("Puzzle %d: Maze %d", id, id),
			SolutionText: "answer",
			Images: types.Images{
				Puzzle: []string{fmt.Sprintf("https://img/%d.png", id)},
				Hint1:  []string{fmt.Sprintf("https://img/%d-h1.png", id)},
				Hint2:  []string{fmt.Sprintf("https://img/%d-h2.png", id)},
			},
		}
	}
	return out
}

func newTestModel(t *testing.T, n int, opts session.Options) (Model, *session.Session) {
	t.Helper()
	opts.InkWidth, opts.InkHeight = 8, 8
	sess := session.New(makeRecords(n), types.InfeasibilityMap{3: "torn page"}, session.Stores{}, opts, zerolog.Nop())
	m := New(sess, zerolog.Nop())
	m = send(t, m, tea.WindowSizeMsg{Width: 42, Height: 30})
	return m, sess
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

func TestViewBeforeAndAfterSize(t *testing.T) {
	sess := session.New(makeRecords(3), nil, session.Stores{}, session.Options{}, zerolog.Nop())
	m := New(sess, zerolog.Nop())
	assert.Equal(t, "Loading…\n", m.View())

	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	v := m.View()
	assert.Contains(t, v, "#001")
	assert.Contains(t, v, "Maze 1")
	assert.Contains(t, v, "Page 1 / 1 • 10 per page")
}

func TestPagingKeysAndPill(t *testing.T) {
	m, sess := newTestModel(t, 23, session.Options{})
	assert.Equal(t, 0, m.PillOffset())

	m = press(t, m, "l")
	assert.Equal(t, 2, sess.View().Page())
	assert.Equal(t, 19, m.PillOffset(), "half of a 40-wide track minus the pill")

	m = press(t, m, "right")
	assert.Equal(t, 3, sess.View().Page())
	assert.Equal(t, 37, m.PillOffset())

	m = send(t, m, tea.WindowSizeMsg{Width: 22, Height: 30})
	assert.Equal(t, 17, m.PillOffset(), "recomputed on resize")

	m = press(t, m, "left", "g")
	assert.Equal(t, 1, sess.View().Page())
	m = press(t, m, "G")
	assert.Equal(t, 3, sess.View().Page())
	m = press(t, m, "2")
	assert.Equal(t, 2, sess.View().Page(), "digit jumps to the nth pager number")
	m = press(t, m, "9")
	assert.Equal(t, 2, sess.View().Page(), "out of range digit is ignored")
}

func TestSearchRefiltersEveryKeystroke(t *testing.T) {
	m, sess := newTestModel(t, 23, session.Options{})
	m = press(t, m, "l")
	require.Equal(t, 2, sess.View().Page())

	m = press(t, m, "/")
	require.True(t, m.Searching())

	m = press(t, m, "#")
	assert.Equal(t, 23, m.Page().Matched)
	assert.Equal(t, 1, sess.View().Page(), "query change resets the page")
	m = press(t, m, "0", "2")
	assert.Equal(t, 4, m.Page().Matched)
	m = press(t, m, "backspace")
	assert.Equal(t, "#0", sess.View().Query())

	m = press(t, m, "l")
	assert.Equal(t, "#0l", sess.View().Query(), "letters go to the input while searching")

	m = press(t, m, "esc")
	assert.False(t, m.Searching())
	assert.Equal(t, "#0l", sess.View().Query())
}

func TestRandomJumpFlashes(t *testing.T) {
	m, sess := newTestModel(t, 23, session.Options{Pick: func(int) int { return 14 }})

	next, cmd := m.Update(keyMsg("r"))
	m = next.(Model)
	require.NotNil(t, cmd, "flash timer scheduled")
	assert.Equal(t, 2, sess.View().Page())
	assert.Equal(t, 15, m.FlashID())
	assert.Equal(t, 4, m.Cursor(), "cursor on the jumped-to record")
	assert.True(t, m.Page().Items[4].Open)

	stale := send(t, m, flashDoneMsg{seq: m.flashSeq - 1})
	assert.Equal(t, 15, stale.FlashID(), "stale flash end is ignored")

	m = send(t, m, flashDoneMsg{seq: m.flashSeq})
	assert.Zero(t, m.FlashID())
}

func TestOpenRecordHintKeys(t *testing.T) {
	m, sess := newTestModel(t, 5, session.Options{})
	m = press(t, m, "j", "enter")
	require.True(t, m.Page().Items[1].Open)

	m = press(t, m, "2")
	assert.Equal(t, disclosure.Locked, m.Page().Items[1].Hints[1], "locked hint does not open")
	assert.Equal(t, 1, sess.View().Page())

	m = press(t, m, "1", "2")
	hints := m.Page().Items[1].Hints
	assert.Equal(t, disclosure.UnlockedOpen, hints[0])
	assert.Equal(t, disclosure.UnlockedOpen, hints[1])
	assert.Equal(t, disclosure.UnlockedClosed, hints[2])
	assert.Contains(t, m.View(), "https://img/2-h2.png")

	m = press(t, m, "s")
	assert.True(t, m.Page().Items[1].SolutionOpen)

	m = press(t, m, "enter")
	assert.False(t, m.Page().Items[1].Open)
}

func TestSolvedToggleDoesNotRender(t *testing.T) {
	m, sess := newTestModel(t, 5, session.Options{})
	before := sess.Renders()

	m = press(t, m, "j", "j", "x")
	assert.True(t, m.Page().Items[2].Solved)
	assert.Equal(t, before, sess.Renders())
	assert.Contains(t, m.View(), "✓ Solved")
}

func TestSolvedMarkerSurvivesNarrowTerminal(t *testing.T) {
	m, _ := newTestModel(t, 5, session.Options{})
	m = send(t, m, tea.WindowSizeMsg{Width: 28, Height: 30})

	m = press(t, m, "j", "j", "x")
	require.Equal(t, "torn page", m.Page().Items[2].Infeasible)
	assert.Contains(t, m.View(), "✓ Solved")
}

func TestRevealAllAndTheme(t *testing.T) {
	m, sess := newTestModel(t, 2, session.Options{})

	m = press(t, m, "a")
	assert.True(t, sess.RevealAll())
	assert.True(t, m.Page().Items[0].SolutionOpen)
	assert.Equal(t, disclosure.UnlockedOpen, m.Page().Items[0].Hints[0])

	m = press(t, m, "t")
	assert.Equal(t, types.ThemeLight, m.Page().Theme)
	assert.Contains(t, m.View(), "theme (light)")
}

func TestInfeasibleBadge(t *testing.T) {
	m, _ := newTestModel(t, 5, session.Options{})
	assert.Contains(t, m.View(), "Infeasible: torn page")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 1, session.Options{})
	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// drag presses at (x0, y), moves to (x1, y) and releases, in canvas rows
// counted from the toolbar.
func drag(t *testing.T, m Model, x0, x1, y int) Model {
	t.Helper()
	row := canvasTop() + y
	return send(t, m,
		mouse(x0, row, tea.MouseActionPress),
		mouse(x1, row, tea.MouseActionMotion),
		mouse(x1, row, tea.MouseActionRelease),
	)
}

func TestDrawModeStrokesPersist(t *testing.T) {
	m, sess := newTestModel(t, 3, session.Options{})
	m = press(t, m, "enter", "d")
	url, ok := m.Drawing()
	require.True(t, ok)
	assert.Equal(t, "https://img/1.png", url)

	l, ok := sess.Layer(url)
	require.True(t, ok)
	w, h := l.Surface().Size()
	assert.Equal(t, 42*cellW, w)
	assert.Equal(t, 21*cellH, h)

	m = drag(t, m, 5, 20, 3)
	assert.True(t, sess.Inked(url))
	assert.False(t, l.Surface().Blank())
	assert.Regexp(t, "[▀▄█]", m.renderCanvas())

	m = press(t, m, "esc")
	_, ok = m.Drawing()
	assert.False(t, ok)
	assert.Equal(t, []string{url}, m.Page().Items[0].Inked)
	assert.Contains(t, m.View(), "✎ 1")
}

func TestDrawToolbarNeverStartsStroke(t *testing.T) {
	m, sess := newTestModel(t, 1, session.Options{})
	m = press(t, m, "enter", "d")
	url, _ := m.Drawing()
	l, _ := sess.Layer(url)

	// "[pen] [eraser] ...": column 8 is the eraser button.
	m = drag(t, m, 8, 30, 0)
	assert.Equal(t, ink.Eraser, l.Tool())
	assert.False(t, sess.Inked(url))

	// Column 5 is the gap between buttons: no button, still no stroke.
	m = drag(t, m, 5, 30, 0)
	assert.False(t, sess.Inked(url))

	m = send(t, m, mouse(0, canvasTop(), tea.MouseActionPress))
	assert.False(t, l.Drawing())
	assert.Equal(t, ink.Pen, l.Tool())
	_, ok := m.Drawing()
	assert.True(t, ok)
}

func TestDrawResizeRelayoutsInk(t *testing.T) {
	m, sess := newTestModel(t, 1, session.Options{})
	m = press(t, m, "enter", "d")
	url, _ := m.Drawing()
	m = drag(t, m, 2, 30, 4)

	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	l, ok := sess.Layer(url)
	require.True(t, ok)
	w, h := l.Surface().Size()
	assert.Equal(t, 60*cellW, w)
	assert.Equal(t, 11*cellH, h)
	assert.False(t, l.Surface().Blank(), "ink rescaled into the new box")
	_, drawing := m.Drawing()
	assert.True(t, drawing)
}

func TestDrawClearNeedsConfirmation(t *testing.T) {
	m, sess := newTestModel(t, 1, session.Options{})
	m = press(t, m, "enter", "d")
	url, _ := m.Drawing()
	m = drag(t, m, 2, 30, 4)
	require.True(t, sess.Inked(url))

	m = press(t, m, "c")
	assert.Contains(t, m.View(), "Clear all ink on this image? y/n")
	m = press(t, m, "n")
	assert.True(t, sess.Inked(url))

	m = press(t, m, "c", "y")
	assert.False(t, sess.Inked(url))
	l, _ := sess.Layer(url)
	assert.True(t, l.Surface().Blank())
}

func TestDrawCyclesVisibleImages(t *testing.T) {
	m, _ := newTestModel(t, 1, session.Options{})
	m = press(t, m, "d")
	_, ok := m.Drawing()
	assert.False(t, ok, "needs an open record")

	m = press(t, m, "enter", "1", "d")
	url, _ := m.Drawing()
	assert.Equal(t, "https://img/1.png", url)

	m = press(t, m, "tab")
	url, _ = m.Drawing()
	assert.Equal(t, "https://img/1-h1.png", url)

	m = press(t, m, "tab")
	url, _ = m.Drawing()
	assert.Equal(t, "https://img/1.png", url, "hint 2 is still locked")
}
