// Package readme keeps the list of infeasible puzzles in a README in sync
// with impossible.json. The list lives between two HTML comment markers and
// everything outside them is left untouched.
package readme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Block markers.
const (
	StartMarker = "<!-- IMPOSSIBLE:START -->"
	EndMarker   = "<!-- IMPOSSIBLE:END -->"
)

// ErrMarkersMissing means the README lacks a start marker followed by an end
// marker.
var ErrMarkersMissing = errors.New("README markers not found")

const (
	emptyLine = "_No impossible puzzles listed._"
	introLine = "Known broken / unsolvable puzzles are flagged in the UI:"
)

// Block renders the marker-delimited list for m, sorted by id.
func Block(m types.InfeasibilityMap) string {
	lines := []string{StartMarker, ""}
	ids := m.IDs()
	if len(ids) == 0 {
		lines = append(lines, emptyLine)
	} else {
		lines = append(lines, introLine, "")
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("- %s — *%s*", types.PadID(id), m[id]))
		}
	}
	lines = append(lines, "", EndMarker)
	return strings.Join(lines, "\n")
}

// Replace swaps the first marker-delimited block in text for block.
func Replace(text, block string) (string, error) {
	start := strings.Index(text, StartMarker)
	if start < 0 {
		return "", ErrMarkersMissing
	}
	end := strings.Index(text[start:], EndMarker)
	if end < 0 {
		return "", ErrMarkersMissing
	}
	end += start + len(EndMarker)
	return text[:start] + block + text[end:], nil
}

// LoadInfeasible reads an impossible.json file.
func LoadInfeasible(path string) (types.InfeasibilityMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return types.NormalizeInfeasible(raw), nil
}

// Update rewrites the block in the README at readmePath from the feed at
// infeasiblePath. It reports whether the file changed; an unchanged file is
// not rewritten.
func Update(readmePath, infeasiblePath string) (bool, error) {
	m, err := LoadInfeasible(infeasiblePath)
	if err != nil {
		return false, err
	}
	old, err := os.ReadFile(readmePath)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", readmePath, err)
	}
	updated, err := Replace(string(old), Block(m))
	if err != nil {
		return false, fmt.Errorf("%s: %w", readmePath, err)
	}
	if updated == string(old) {
		return false, nil
	}
	info, err := os.Stat(readmePath)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(readmePath, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", readmePath, err)
	}
	return true, nil
}
