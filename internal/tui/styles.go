package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// =============================================================================
// Styles
// =============================================================================

// palette holds the colours of one theme.
type palette struct {
	fg, dim, accent, tag, warn, ok, flashBg, selectBg lipgloss.Color
}

var palettes = map[types.Theme]palette{
	types.ThemeDark: {
		fg: "252", dim: "241", accent: "39", tag: "212",
		warn: "203", ok: "42", flashBg: "58", selectBg: "236",
	},
	types.ThemeLight: {
		fg: "235", dim: "245", accent: "25", tag: "127",
		warn: "160", ok: "28", flashBg: "229", selectBg: "254",
	},
}

// inkColor matches ink.PenColor.
const inkColor = lipgloss.Color("#e53935")

// styles is the lipgloss style set for one theme.
type styles struct {
	title      lipgloss.Style
	status     lipgloss.Style
	tag        lipgloss.Style
	item       lipgloss.Style
	selected   lipgloss.Style
	flash      lipgloss.Style
	section    lipgloss.Style
	dim        lipgloss.Style
	infeasible lipgloss.Style
	solved     lipgloss.Style
	inked      lipgloss.Style
	locked     lipgloss.Style
	pageActive lipgloss.Style
	pageOff    lipgloss.Style
	pill       lipgloss.Style
	helpKey    lipgloss.Style
	helpDesc   lipgloss.Style
	ink        lipgloss.Style
}

func newStyles(theme types.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[types.DefaultTheme]
	}
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		status:     lipgloss.NewStyle().Foreground(p.dim),
		tag:        lipgloss.NewStyle().Bold(true).Foreground(p.tag),
		item:       lipgloss.NewStyle().Foreground(p.fg),
		selected:   lipgloss.NewStyle().Foreground(p.fg).Background(p.selectBg),
		flash:      lipgloss.NewStyle().Bold(true).Foreground(p.fg).Background(p.flashBg),
		section:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		dim:        lipgloss.NewStyle().Foreground(p.dim),
		infeasible: lipgloss.NewStyle().Foreground(p.warn),
		solved:     lipgloss.NewStyle().Foreground(p.ok),
		inked:      lipgloss.NewStyle().Foreground(p.warn).Italic(true),
		locked:     lipgloss.NewStyle().Foreground(p.dim).Strikethrough(true),
		pageActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent),
		pageOff:    lipgloss.NewStyle().Foreground(p.dim),
		pill:       lipgloss.NewStyle().Foreground(p.accent),
		helpKey:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		helpDesc:   lipgloss.NewStyle().Foreground(p.dim),
		ink:        lipgloss.NewStyle().Foreground(inkColor),
	}
}
