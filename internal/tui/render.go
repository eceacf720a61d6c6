package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/puzzlebook/internal/catalog"
	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// =============================================================================
// Rendering
// =============================================================================

func (m Model) styles() styles { return newStyles(m.page.Theme) }

func (m Model) selected() (session.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Items) {
		return session.Item{}, false
	}
	return m.page.Items[m.cursor], true
}

func (m Model) renderHeader() string {
	st := m.styles()
	var b strings.Builder

	b.WriteString(st.title.Render("puzzlebook"))
	b.WriteString("  ")
	b.WriteString(st.status.Render(m.page.Status))
	if m.page.Solved > 0 {
		b.WriteString(st.solved.Render(fmt.Sprintf("  ✓ %d solved", m.page.Solved)))
	}
	if m.page.RevealAll {
		b.WriteString(st.dim.Render("  [reveal all]"))
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else if q := m.page.Query; q != "" {
		b.WriteString(st.dim.Render("/ " + q))
	} else {
		b.WriteString(st.dim.Render("/ to search"))
	}
	b.WriteString("\n")
	return b.String()
}

// renderList draws the page and returns the first line of each item.
func (m Model) renderList() (string, []int) {
	st := m.styles()
	if len(m.page.Items) == 0 {
		return st.dim.Render("No puzzles match."), nil
	}

	var lines []string
	starts := make([]int, 0, len(m.page.Items))
	for i, it := range m.page.Items {
		starts = append(starts, len(lines))
		lines = append(lines, m.renderSummary(st, i, it))
		if it.Open {
			lines = append(lines, m.renderDetails(st, it)...)
		}
	}
	return strings.Join(lines, "\n"), starts
}

func (m Model) renderSummary(st styles, i int, it session.Item) string {
	marker := "  "
	if i == m.cursor {
		marker = "› "
	}
	fold := "▸"
	if it.Open {
		fold = "▾"
	}

	line := marker + fold + " " + st.tag.Render(it.Tag) + " " + st.item.Render(it.Title)
	// Short markers first so narrow terminals keep them.
	if it.Solved {
		line += "  " + st.solved.Render("✓ Solved")
	}
	if n := len(it.Inked); n > 0 {
		line += "  " + st.inked.Render(fmt.Sprintf("✎ %d", n))
	}
	if it.Infeasible != "" {
		line += "  " + st.infeasible.Render("Infeasible: "+it.Infeasible)
	}

	switch {
	case it.Record.ID == m.flashID:
		return st.flash.Render(line)
	case i == m.cursor:
		return st.selected.Render(line)
	}
	return line
}

func (m Model) renderDetails(st styles, it session.Item) []string {
	const indent = "      "
	inked := make(map[string]bool, len(it.Inked))
	for _, u := range it.Inked {
		inked[u] = true
	}
	images := func(urls []string) []string {
		if len(urls) == 0 {
			return []string{indent + "  " + st.dim.Render("(no images)")}
		}
		out := make([]string, 0, len(urls))
		for _, u := range urls {
			line := indent + "  " + u
			if inked[u] {
				line += " " + st.inked.Render("✎")
			}
			out = append(out, line)
		}
		return out
	}

	var out []string
	r := it.Record
	if len(r.Images.Puzzle) > 0 {
		out = append(out, indent+st.section.Render("Puzzle"))
		out = append(out, images(r.Images.Puzzle)...)
	}

	if r.Images.HasHints() {
		out = append(out, indent+st.section.Render("Hints"))
		for k := 1; k <= disclosure.HintCount; k++ {
			state := it.Hints[k-1]
			label := fmt.Sprintf("[%d] Hint %d (%s)", k, k, state)
			switch state {
			case disclosure.Locked:
				out = append(out, indent+st.locked.Render(label))
			case disclosure.UnlockedOpen:
				out = append(out, indent+"▾ "+label)
				out = append(out, images(r.Images.Hint(k))...)
			default:
				out = append(out, indent+"▸ "+label)
			}
		}
	}

	if r.HasSolution() {
		if it.SolutionOpen {
			out = append(out, indent+st.section.Render("▾ [s] Solution"))
			if r.SolutionText != "" {
				out = append(out, indent+"  "+r.SolutionText)
			}
			if len(r.Images.Solution) > 0 {
				out = append(out, images(r.Images.Solution)...)
			}
		} else {
			out = append(out, indent+st.section.Render("▸ [s] Solution"))
		}
	}
	return out
}

func (m Model) renderFooter() string {
	st := m.styles()
	pager := m.page.Pager
	var b strings.Builder

	b.WriteString(renderPager(st, pager))
	b.WriteString("\n")
	b.WriteString(st.status.Render(pager.Label))
	b.WriteString("\n")

	track := m.trackWidth()
	b.WriteString(st.dim.Render(strings.Repeat("─", m.pillOffset)))
	b.WriteString(st.pill.Render(strings.Repeat("█", pillWidth)))
	b.WriteString(st.dim.Render(strings.Repeat("─", max(0, track-m.pillOffset-pillWidth))))
	b.WriteString("\n\n")

	b.WriteString(renderHelp(st, m.page.Theme))
	return b.String()
}

func renderPager(st styles, p catalog.Pager) string {
	parts := make([]string, 0, len(p.Items)+2)
	if p.PrevOff {
		parts = append(parts, st.pageOff.Render("‹ Prev"))
	} else {
		parts = append(parts, "‹ Prev")
	}
	for _, it := range p.Items {
		switch {
		case it.Kind == catalog.PagerEllipsis:
			parts = append(parts, st.dim.Render("…"))
		case it.Active:
			parts = append(parts, st.pageActive.Render(strconv.Itoa(it.Page)))
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	if p.NextOff {
		parts = append(parts, st.pageOff.Render("Next ›"))
	} else {
		parts = append(parts, "Next ›")
	}
	return strings.Join(parts, " ")
}

var helpKeys = []struct{ key, desc string }{
	{"/", "search"},
	{"←/→", "page"},
	{"1-9", "page n / hint n"},
	{"r", "random"},
	{"enter", "open"},
	{"s", "solution"},
	{"d", "draw"},
	{"x", "solved"},
	{"a", "reveal all"},
	{"t", "theme"},
	{"q", "quit"},
}

func renderHelp(st styles, theme types.Theme) string {
	parts := make([]string, 0, len(helpKeys))
	for _, h := range helpKeys {
		desc := h.desc
		if h.key == "t" {
			desc = "theme (" + theme.String() + ")"
		}
		parts = append(parts, st.helpKey.Render(h.key)+" "+st.helpDesc.Render(desc))
	}
	return strings.Join(parts, "  ")
}
