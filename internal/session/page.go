package session

import (
	"fmt"

	"github.com/mesh-intelligence/puzzlebook/internal/catalog"
	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Item is the render snapshot of one record on the current page.
type Item struct {
	Record       types.Record
	Tag          string
	Title        string
	Infeasible   string
	Solved       bool
	Open         bool
	Hints        [disclosure.HintCount]disclosure.HintState
	SolutionOpen bool
	// Inked lists the record's image URLs that have stored ink.
	Inked []string
}

// Page is a read-only snapshot of everything a front end draws.
type Page struct {
	Items     []Item
	Pager     catalog.Pager
	Query     string
	Matched   int
	Total     int
	Solved    int
	RevealAll bool
	Theme     types.Theme
	Status    string
}

// Page builds a snapshot of the current state. It has no side effects.
func (s *Session) Page() Page {
	v := s.view
	records := v.PageItems()
	items := make([]Item, 0, len(records))
	for _, r := range records {
		it := Item{
			Record:     r,
			Tag:        r.Tag(),
			Title:      r.DisplayTitle(),
			Infeasible: v.Infeasible().Reason(r.ID),
			Solved:     s.stores.Solved.IsSolved(r.ID),
			Open:       s.accordion.IsOpen(r.ID),
		}
		if m, ok := s.machines[r.ID]; ok {
			it.Hints = m.States()
			it.SolutionOpen = m.SolutionOpen()
		}
		for _, url := range r.Images.All() {
			if s.stores.Ink.Has(url) {
				it.Inked = append(it.Inked, url)
			}
		}
		items = append(items, it)
	}
	return Page{
		Items:     items,
		Pager:     catalog.BuildPager(v.Page(), v.TotalPages(), v.PageSize()),
		Query:     v.Query(),
		Matched:   len(v.Filtered()),
		Total:     v.Total(),
		Solved:    s.stores.Solved.Count(),
		RevealAll: s.revealAll,
		Theme:     s.stores.Theme.Get(),
		Status:    fmt.Sprintf("Showing %d results — %d per page", len(v.Filtered()), v.PageSize()),
	}
}
