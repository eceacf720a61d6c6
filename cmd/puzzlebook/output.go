// Text and JSON rendering of session pages for the CLI.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/puzzlebook/internal/catalog"
	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
)

type hintJSON struct {
	State  string   `json:"state"`
	Images []string `json:"images,omitempty"`
}

type recordJSON struct {
	ID         int      `json:"id"`
	Tag        string   `json:"tag"`
	Title      string   `json:"title"`
	Infeasible string   `json:"infeasible,omitempty"`
	Solved     bool     `json:"solved"`
	Inked      []string `json:"inked,omitempty"`

	// Detail fields, filled for show and random.
	Puzzle       []string   `json:"puzzle,omitempty"`
	Hints        []hintJSON `json:"hints,omitempty"`
	SolutionOpen *bool      `json:"solution_open,omitempty"`
	SolutionText string     `json:"solution_text,omitempty"`
	Solution     []string   `json:"solution,omitempty"`
}

type pageJSON struct {
	Query      string       `json:"query"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	PageSize   int          `json:"page_size"`
	Matched    int          `json:"matched"`
	Total      int          `json:"total"`
	Items      []recordJSON `json:"items"`
}

func summaryJSON(it session.Item) recordJSON {
	return recordJSON{
		ID:         it.Record.ID,
		Tag:        it.Tag,
		Title:      it.Title,
		Infeasible: it.Infeasible,
		Solved:     it.Solved,
		Inked:      it.Inked,
	}
}

// detailJSON adds the disclosed content of an open item. Hidden hints and a
// closed solution carry their state but not their content.
func detailJSON(it session.Item) recordJSON {
	out := summaryJSON(it)
	r := it.Record
	out.Puzzle = r.Images.Puzzle
	for k := 1; k <= disclosure.HintCount; k++ {
		if len(r.Images.Hint(k)) == 0 {
			continue
		}
		h := hintJSON{State: it.Hints[k-1].String()}
		if it.Hints[k-1] == disclosure.UnlockedOpen {
			h.Images = r.Images.Hint(k)
		}
		out.Hints = append(out.Hints, h)
	}
	if r.HasSolution() {
		open := it.SolutionOpen
		out.SolutionOpen = &open
		if open {
			out.SolutionText = r.SolutionText
			out.Solution = r.Images.Solution
		}
	}
	return out
}

func newPageJSON(p session.Page, pageSize int) pageJSON {
	items := make([]recordJSON, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, summaryJSON(it))
	}
	return pageJSON{
		Query:      p.Query,
		Page:       p.Pager.Page,
		TotalPages: p.Pager.TotalPages,
		PageSize:   pageSize,
		Matched:    p.Matched,
		Total:      p.Total,
		Items:      items,
	}
}

// summaryLine renders one record as a single list line.
func summaryLine(it session.Item) string {
	var b strings.Builder
	b.WriteString(it.Tag)
	b.WriteString("  ")
	b.WriteString(it.Title)
	if it.Infeasible != "" {
		b.WriteString("  [infeasible: " + it.Infeasible + "]")
	}
	if it.Solved {
		b.WriteString("  [solved]")
	}
	if len(it.Inked) > 0 {
		fmt.Fprintf(&b, "  [ink: %d]", len(it.Inked))
	}
	return b.String()
}

// pagerLine renders the pager controls, marking the active page.
func pagerLine(p catalog.Pager) string {
	parts := make([]string, 0, len(p.Items)+2)
	if !p.PrevOff {
		parts = append(parts, "‹")
	}
	for _, it := range p.Items {
		switch {
		case it.Kind == catalog.PagerEllipsis:
			parts = append(parts, "…")
		case it.Active:
			parts = append(parts, "["+strconv.Itoa(it.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	if !p.NextOff {
		parts = append(parts, "›")
	}
	return strings.Join(parts, " ")
}

func writePage(w io.Writer, p session.Page) {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No puzzles match.")
	}
	for _, it := range p.Items {
		fmt.Fprintln(w, summaryLine(it))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, pagerLine(p.Pager))
	fmt.Fprintln(w, p.Pager.Label)
	fmt.Fprintln(w, p.Status)
}

// writeDetail renders an item with its disclosure state.
func writeDetail(w io.Writer, it session.Item) {
	r := it.Record
	fmt.Fprintln(w, summaryLine(it))
	writeImages(w, "Puzzle", r.Images.Puzzle)
	for k := 1; k <= disclosure.HintCount; k++ {
		urls := r.Images.Hint(k)
		if len(urls) == 0 {
			continue
		}
		state := it.Hints[k-1]
		label := fmt.Sprintf("Hint %d (%s)", k, state)
		if state != disclosure.UnlockedOpen {
			fmt.Fprintln(w, "  "+label)
			continue
		}
		writeImages(w, label, urls)
	}
	if !r.HasSolution() {
		return
	}
	if !it.SolutionOpen {
		fmt.Fprintln(w, "  Solution (hidden)")
		return
	}
	fmt.Fprintln(w, "  Solution")
	if r.SolutionText != "" {
		fmt.Fprintln(w, "    "+r.SolutionText)
	}
	for _, u := range r.Images.Solution {
		fmt.Fprintln(w, "    "+u)
	}
}

func writeImages(w io.Writer, label string, urls []string) {
	if len(urls) == 0 {
		return
	}
	fmt.Fprintln(w, "  "+label)
	for _, u := range urls {
		fmt.Fprintln(w, "    "+u)
	}
}

// findItem returns the item for id on the current page.
func findItem(p session.Page, id int) (session.Item, bool) {
	for _, it := range p.Items {
		if it.Record.ID == id {
			return it, true
		}
	}
	return session.Item{}, false
}
