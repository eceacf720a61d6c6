// Package catalog derives the visible page of the puzzle catalog from the
// full record set, a query string and a page cursor.
//
// Filtering is pure substring containment over a per-record "hay" string;
// there is no tokenization and no ranking, and the source order of the records
// is always preserved.
package catalog

import (
	"strings"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Hay returns the lower-cased search text for a record: its id tag, its
// sanitized title, its infeasibility reason and its solution text, joined by
// single spaces.
func Hay(r types.Record, infeasible types.InfeasibilityMap) string {
	return strings.ToLower(strings.Join([]string{
		r.Tag(),
		r.DisplayTitle(),
		infeasible.Reason(r.ID),
		r.SolutionText,
	}, " "))
}

// NormalizeQuery trims and lower-cases a raw query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Matches reports whether r matches query. An empty or whitespace-only query
// matches every record.
func Matches(r types.Record, query string, infeasible types.InfeasibilityMap) bool {
	q := NormalizeQuery(query)
	if q == "" {
		return true
	}
	return strings.Contains(Hay(r, infeasible), q)
}

// Filter returns the records matching query in their original order.
// The result never aliases records.
func Filter(records []types.Record, query string, infeasible types.InfeasibilityMap) []types.Record {
	out := make([]types.Record, 0, len(records))
	q := NormalizeQuery(query)
	for _, r := range records {
		if q == "" || strings.Contains(Hay(r, infeasible), q) {
			out = append(out, r)
		}
	}
	return out
}
