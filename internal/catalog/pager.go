package catalog

import (
	"fmt"
	"math"
)

// pagerWindow is the number of numbered pages shown on each side of the
// current page.
const pagerWindow = 2

// PagerItemKind distinguishes numbered buttons from ellipsis markers.
type PagerItemKind int

const (
	// PagerNumber is a numbered page button.
	PagerNumber PagerItemKind = iota
	// PagerEllipsis stands for two or more skipped pages.
	PagerEllipsis
)

// PagerItem is one entry in the numbered pager row.
type PagerItem struct {
	Kind   PagerItemKind
	Page   int
	Active bool
}

// Pager describes the pager controls for one render pass.
type Pager struct {
	Page       int
	TotalPages int
	PrevOff    bool
	NextOff    bool
	Items      []PagerItem
	Label      string

	// Fraction is the position of the progress marker along its track,
	// 0 on the first page and 1 on the last.
	Fraction float64
}

// BuildPager lays out the pager for page out of total pages.
//
// Page 1 and the last page are always shown, with a window of two pages on
// each side of the current one. A gap that skips exactly one page shows that
// page; a larger gap collapses into one ellipsis.
func BuildPager(page, total, pageSize int) Pager {
	total = max(1, total)
	page = clamp(page, 1, total)

	p := Pager{
		Page:       page,
		TotalPages: total,
		PrevOff:    page <= 1,
		NextOff:    page >= total,
		Label:      fmt.Sprintf("Page %d / %d • %d per page", page, total, pageSize),
	}
	if total > 1 {
		p.Fraction = float64(page-1) / float64(total-1)
	}

	num := func(n int) {
		p.Items = append(p.Items, PagerItem{Kind: PagerNumber, Page: n, Active: n == page})
	}

	start := clamp(page-pagerWindow, 1, total)
	end := clamp(page+pagerWindow, 1, total)

	num(1)
	switch {
	case start == 3:
		num(2)
	case start > 3:
		p.Items = append(p.Items, PagerItem{Kind: PagerEllipsis})
	}
	for n := max(2, start); n <= min(total-1, end); n++ {
		num(n)
	}
	switch {
	case end == total-2:
		num(total - 1)
	case end < total-2:
		p.Items = append(p.Items, PagerItem{Kind: PagerEllipsis})
	}
	if total > 1 {
		num(total)
	}
	return p
}

// Numbers returns the page numbers shown as buttons, in order.
func (p Pager) Numbers() []int {
	var out []int
	for _, it := range p.Items {
		if it.Kind == PagerNumber {
			out = append(out, it.Page)
		}
	}
	return out
}

// PillOffset returns the marker offset within a track, in the same unit as
// the widths. It must be recomputed whenever the track is laid out again.
func (p Pager) PillOffset(trackWidth, pillWidth int) int {
	span := max(0, trackWidth-pillWidth)
	return int(math.Round(float64(span) * p.Fraction))
}
