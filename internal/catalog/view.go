package catalog

import (
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// ViewState is the single mutable view over the catalog: the current query,
// the page cursor and the filtered records derived from them.
//
// After every mutation 1 <= Page() <= TotalPages() holds and TotalPages() is
// max(1, ceil(len(Filtered()) / PageSize())).
type ViewState struct {
	records    []types.Record
	infeasible types.InfeasibilityMap
	pageSize   int

	query      string
	page       int
	filtered   []types.Record
	totalPages int
}

// NewViewState creates a view over records with an empty query on page 1.
// A pageSize below 1 is replaced by types.DefaultPageSize.
func NewViewState(records []types.Record, infeasible types.InfeasibilityMap, pageSize int) *ViewState {
	if pageSize < 1 {
		pageSize = types.DefaultPageSize
	}
	v := &ViewState{
		records:    records,
		infeasible: infeasible,
		pageSize:   pageSize,
		page:       1,
	}
	v.recompute()
	return v
}

// SetQuery replaces the query, resets the cursor to page 1 and recomputes the
// filtered set.
func (v *ViewState) SetQuery(text string) {
	v.query = text
	v.page = 1
	v.recompute()
}

// SetPage moves the cursor to n, clamped to [1, TotalPages()].
func (v *ViewState) SetPage(n int) {
	v.page = clamp(n, 1, v.totalPages)
}

// Next advances one page. It reports whether the cursor moved.
func (v *ViewState) Next() bool {
	if v.page >= v.totalPages {
		return false
	}
	v.page++
	return true
}

// Prev goes back one page. It reports whether the cursor moved.
func (v *ViewState) Prev() bool {
	if v.page <= 1 {
		return false
	}
	v.page--
	return true
}

// RandomJump picks a uniformly random filtered record using pick, which must
// return a value in [0, n). The cursor moves to the page holding the record.
// It returns false when the filtered set is empty.
func (v *ViewState) RandomJump(pick func(n int) int) (types.Record, bool) {
	if len(v.filtered) == 0 {
		return types.Record{}, false
	}
	chosen := v.filtered[clamp(pick(len(v.filtered)), 0, len(v.filtered)-1)]
	idx := v.IndexOf(chosen.ID)
	v.SetPage(idx/v.pageSize + 1)
	return chosen, true
}

// IndexOf returns the position of the first filtered record with id, or -1.
func (v *ViewState) IndexOf(id int) int {
	for i, r := range v.filtered {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// PageOf returns the page holding the first filtered record with id, or 0
// when the id is filtered out.
func (v *ViewState) PageOf(id int) int {
	idx := v.IndexOf(id)
	if idx < 0 {
		return 0
	}
	return idx/v.pageSize + 1
}

// PageItems returns the records on the current page.
func (v *ViewState) PageItems() []types.Record {
	start := (v.page - 1) * v.pageSize
	if start >= len(v.filtered) {
		return nil
	}
	end := min(start+v.pageSize, len(v.filtered))
	return v.filtered[start:end]
}

// Query returns the raw query text.
func (v *ViewState) Query() string { return v.query }

// Page returns the current page, 1-based.
func (v *ViewState) Page() int { return v.page }

// TotalPages returns the number of pages, at least 1.
func (v *ViewState) TotalPages() int { return v.totalPages }

// PageSize returns the fixed number of records per page.
func (v *ViewState) PageSize() int { return v.pageSize }

// Filtered returns the records matching the current query in source order.
func (v *ViewState) Filtered() []types.Record { return v.filtered }

// Total returns the number of records in the full set.
func (v *ViewState) Total() int { return len(v.records) }

// Infeasible returns the infeasibility map the view filters with.
func (v *ViewState) Infeasible() types.InfeasibilityMap { return v.infeasible }

func (v *ViewState) recompute() {
	v.filtered = Filter(v.records, v.query, v.infeasible)
	v.totalPages = max(1, (len(v.filtered)+v.pageSize-1)/v.pageSize)
	v.page = clamp(v.page, 1, v.totalPages)
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}
