package types

import "fmt"

// Section names for the image lists of a Record.
const (
	SectionPuzzle   = "puzzle"
	SectionHint1    = "hint1"
	SectionHint2    = "hint2"
	SectionHint3    = "hint3"
	SectionSolution = "solution"
)

// Sections lists the image sections in display order.
var Sections = []string{
	SectionPuzzle,
	SectionHint1,
	SectionHint2,
	SectionHint3,
	SectionSolution,
}

// Images groups a record's image URLs by section.
type Images struct {
	Puzzle   []string `json:"puzzle,omitempty"`
	Hint1    []string `json:"hint1,omitempty"`
	Hint2    []string `json:"hint2,omitempty"`
	Hint3    []string `json:"hint3,omitempty"`
	Solution []string `json:"solution,omitempty"`
}

// Section returns the URLs for the named section, or nil for an unknown name.
func (im Images) Section(name string) []string {
	switch name {
	case SectionPuzzle:
		return im.Puzzle
	case SectionHint1:
		return im.Hint1
	case SectionHint2:
		return im.Hint2
	case SectionHint3:
		return im.Hint3
	case SectionSolution:
		return im.Solution
	default:
		return nil
	}
}

// Hint returns the URLs of hint k (1-based). Out of range returns nil.
func (im Images) Hint(k int) []string {
	switch k {
	case 1:
		return im.Hint1
	case 2:
		return im.Hint2
	case 3:
		return im.Hint3
	default:
		return nil
	}
}

// HasHints reports whether any hint section carries an image.
func (im Images) HasHints() bool {
	return len(im.Hint1) > 0 || len(im.Hint2) > 0 || len(im.Hint3) > 0
}

// All returns every image URL in section order. Duplicates are kept.
func (im Images) All() []string {
	var out []string
	for _, s := range Sections {
		out = append(out, im.Section(s)...)
	}
	return out
}

// Record is one catalog entry. ID is the natural key; uniqueness is assumed
// by callers but not enforced.
type Record struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	SolutionText string `json:"solution_text,omitempty"`
	Images       Images `json:"images"`
}

// Tag returns the "#NNN" badge for the record.
func (r Record) Tag() string {
	return "#" + PadID(r.ID)
}

// DisplayTitle returns the sanitized title used for display and search.
func (r Record) DisplayTitle() string {
	return SanitizeTitle(r.Title, r.ID)
}

// HasSolution reports whether the record has solution text or images.
func (r Record) HasSolution() bool {
	return r.SolutionText != "" || len(r.Images.Solution) > 0
}

// PadID zero-pads an id to at least three digits.
func PadID(id int) string {
	if id < 0 {
		return fmt.Sprintf("-%03d", -id)
	}
	return fmt.Sprintf("%03d", id)
}
