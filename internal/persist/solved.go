// Package persist exposes the durable local state of puzzlebook as typed
// maps over a types.Store: the solved map, the ink map and the theme
// preference.
//
// Every map is read once when it is loaded and written through on every
// mutation. Store failures never reach the caller: a failed read leaves the
// map empty, a failed write keeps the in-memory value, and both are logged
// at debug level.
package persist

import (
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// SolvedMap records which puzzles the user marked solved, keyed by the
// decimal record id.
type SolvedMap struct {
	table  types.Table
	logger zerolog.Logger
	solved map[string]bool
}

// LoadSolved reads the solved table. A nil table gives a memory-only map.
func LoadSolved(table types.Table, logger zerolog.Logger) *SolvedMap {
	m := &SolvedMap{table: table, logger: logger, solved: make(map[string]bool)}
	if table == nil {
		return m
	}
	entries, err := table.Entries()
	if err != nil {
		logger.Debug().Err(err).Msg("load solved map")
		return m
	}
	for _, e := range entries {
		v, err := strconv.ParseBool(string(e.Value))
		if err != nil {
			logger.Debug().Str("key", e.Key).Msg("skip corrupt solved entry")
			continue
		}
		m.solved[e.Key] = v
	}
	return m
}

func solvedKey(id int) string { return strconv.Itoa(id) }

// IsSolved reports whether the record with id is marked solved.
func (m *SolvedMap) IsSolved(id int) bool {
	return m.solved[solvedKey(id)]
}

// Set marks id solved or unsolved and writes it through.
func (m *SolvedMap) Set(id int, solved bool) {
	key := solvedKey(id)
	m.solved[key] = solved
	if m.table == nil {
		return
	}
	if err := m.table.Set(key, []byte(strconv.FormatBool(solved))); err != nil {
		m.logger.Debug().Err(err).Str("key", key).Msg("write solved entry")
	}
}

// Toggle flips the solved flag for id and returns the new value.
func (m *SolvedMap) Toggle(id int) bool {
	v := !m.IsSolved(id)
	m.Set(id, v)
	return v
}

// Count returns the number of records marked solved.
func (m *SolvedMap) Count() int {
	n := 0
	for _, v := range m.solved {
		if v {
			n++
		}
	}
	return n
}

// IDs returns the solved record ids in ascending order. Keys that are not
// integers are skipped.
func (m *SolvedMap) IDs() []int {
	var out []int
	for k, v := range m.solved {
		if !v {
			continue
		}
		if id, err := strconv.Atoi(k); err == nil {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
