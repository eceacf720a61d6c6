package persist

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

const themeKey = "theme"

// ThemePref is the stored light/dark preference.
type ThemePref struct {
	table  types.Table
	logger zerolog.Logger
	theme  types.Theme
}

// LoadTheme reads the preference. Missing or unrecognised values read as
// types.DefaultTheme.
func LoadTheme(table types.Table, logger zerolog.Logger) *ThemePref {
	p := &ThemePref{table: table, logger: logger, theme: types.DefaultTheme}
	if table == nil {
		return p
	}
	e, err := table.Get(themeKey)
	if err != nil {
		return p
	}
	p.theme, _ = types.ParseTheme(string(e.Value))
	return p
}

// Get returns the current theme.
func (p *ThemePref) Get() types.Theme { return p.theme }

// Set stores theme.
func (p *ThemePref) Set(theme types.Theme) {
	p.theme = theme
	if p.table == nil {
		return
	}
	if err := p.table.Set(themeKey, []byte(theme)); err != nil {
		p.logger.Debug().Err(err).Msg("write theme")
	}
}

// Toggle switches to the other theme and returns it.
func (p *ThemePref) Toggle() types.Theme {
	p.Set(p.theme.Toggle())
	return p.theme
}
