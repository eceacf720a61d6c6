package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
)

// =============================================================================
// Key Handling
// =============================================================================

// updateSearch feeds keys to the search input. Every keystroke re-filters;
// enter or esc hands focus back to the list.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.sess.SetQuery(v)
		m.cursor = 0
		refreshCmd := m.refresh()
		return m, tea.Batch(cmd, refreshCmd)
	}
	return m, cmd
}

// handleKey maps list-mode keys to session events.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// With a record open, 1-3 address its hints instead of the pager.
	if id, ok := m.openID(); ok {
		switch key {
		case "1", "2", "3":
			k := int(key[0] - '0')
			if _, err := m.sess.ToggleHint(id, k); err != nil && !errors.Is(err, disclosure.ErrLocked) {
				m.logger.Debug().Err(err).Int("id", id).Int("hint", k).Msg("toggle hint")
			}
			cmd := m.refresh()
			return m, cmd
		case "s":
			_, _ = m.sess.ToggleSolution(id)
			cmd := m.refresh()
			return m, cmd
		case "d":
			m.startDrawing()
			return m, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case "left", "h":
		m.sess.Prev()
	case "right", "l":
		m.sess.Next()
	case "g", "home":
		m.sess.SetPage(1)
	case "G", "end":
		m.sess.SetPage(m.page.Pager.TotalPages)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		nums := m.page.Pager.Numbers()
		if n := int(key[0] - '1'); n < len(nums) {
			m.sess.SetPage(nums[n])
		}

	case "r":
		m.sess.RandomJump()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.page.Items)-1 {
			m.cursor++
		}

	case "enter", " ":
		if it, ok := m.selected(); ok {
			_, _ = m.sess.ToggleOpen(it.Record.ID)
		}
	case "x":
		if it, ok := m.selected(); ok {
			m.sess.ToggleSolved(it.Record.ID)
		}
	case "a":
		m.sess.SetRevealAll(!m.sess.RevealAll())
	case "t":
		m.sess.ToggleTheme()

	default:
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	cmd := m.refresh()
	return m, cmd
}

func (m Model) openID() (int, bool) {
	for _, it := range m.page.Items {
		if it.Open {
			return it.Record.ID, true
		}
	}
	return 0, false
}
