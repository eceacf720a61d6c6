package types

// Theme is the two-valued colour preference.
type Theme string

// Theme values. DefaultTheme applies when nothing valid is stored.
const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	DefaultTheme       = ThemeDark
)

// ParseTheme returns the theme named by s, or DefaultTheme and false for
// anything else.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	default:
		return DefaultTheme, false
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) String() string { return string(t) }
