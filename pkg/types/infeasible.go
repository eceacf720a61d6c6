package types

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// InfeasibilityMap maps a record id to the reason the record cannot be solved
// by normal means. Absent ids are feasible.
type InfeasibilityMap map[int]string

// Reason returns the infeasibility reason for id, or "" when the record is
// feasible.
func (m InfeasibilityMap) Reason(id int) string {
	if m == nil {
		return ""
	}
	return m[id]
}

// Infeasible reports whether id has a non-empty reason.
func (m InfeasibilityMap) Infeasible(id int) bool {
	return m.Reason(id) != ""
}

// IDs returns the ids in ascending order.
func (m InfeasibilityMap) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// NormalizeInfeasible builds an InfeasibilityMap from raw feed content whose
// keys are numeric strings. Keys that do not parse to a finite integral number
// are dropped. Non-string values are formatted with fmt.Sprint.
func NormalizeInfeasible(raw map[string]any) InfeasibilityMap {
	out := make(InfeasibilityMap, len(raw))
	for k, v := range raw {
		id, ok := parseRecordID(k)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			out[id] = s
		case nil:
			out[id] = "null"
		default:
			out[id] = fmt.Sprint(s)
		}
	}
	return out
}

func parseRecordID(key string) (int, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(key); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
