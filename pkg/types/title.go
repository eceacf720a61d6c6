package types

import (
	"regexp"
	"strings"
)

// Title prefixes that repeat the record number. Separators are - : – —.
var (
	puzzlePrefix   = regexp.MustCompile(`(?i)^\s*puzzle\s*\d{1,3}\s*[-:–—]?\s*`)
	numberSepFirst = regexp.MustCompile(`^\s*\d{1,3}\s*[-:–—]\s*`)
	numberSpace    = regexp.MustCompile(`^\s*\d+\s+`)
)

// SanitizeTitle strips redundant "Puzzle NNN" and "NNN -" prefixes from a
// raw title. An empty result falls back to "Puzzle NNN". The prefixes are
// stripped until none applies, so SanitizeTitle(SanitizeTitle(t, id), id)
// equals SanitizeTitle(t, id).
func SanitizeTitle(title string, id int) string {
	s := strings.TrimSpace(title)
	for {
		next := stripTitlePrefix(s)
		if next == s {
			break
		}
		s = next
	}
	if s == "" {
		return "Puzzle " + PadID(id)
	}
	return s
}

func stripTitlePrefix(s string) string {
	if loc := puzzlePrefix.FindStringIndex(s); loc != nil {
		// "Puzzle 1234" is a title, not a 3-digit prefix.
		if rest := s[loc[1]:]; !startsWithDigit(rest) || !startsWithDigit(s[loc[1]-1:]) {
			return strings.TrimSpace(rest)
		}
	}
	if loc := numberSepFirst.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	if loc := numberSpace.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
