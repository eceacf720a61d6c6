package persist

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// InkMap holds the serialized ink surface of every annotated image, keyed by
// the image URL verbatim. Two records showing the same URL share one entry.
// It satisfies ink.Store.
type InkMap struct {
	table   types.Table
	policy  Policy
	logger  zerolog.Logger
	entries map[string]types.Entry
	now     func() time.Time
}

// LoadInk reads the ink table. A nil table gives a memory-only map and a nil
// policy means Unbounded.
func LoadInk(table types.Table, policy Policy, logger zerolog.Logger) *InkMap {
	if policy == nil {
		policy = Unbounded{}
	}
	m := &InkMap{
		table:   table,
		policy:  policy,
		logger:  logger,
		entries: make(map[string]types.Entry),
		now:     time.Now,
	}
	if table == nil {
		return m
	}
	entries, err := table.Entries()
	if err != nil {
		logger.Debug().Err(err).Msg("load ink map")
		return m
	}
	for _, e := range entries {
		if len(e.Value) == 0 {
			continue
		}
		m.entries[e.Key] = e
	}
	return m
}

// Get returns the data URL stored for url and marks it used.
func (m *InkMap) Get(url string) (string, bool) {
	e, ok := m.entries[url]
	if !ok {
		return "", false
	}
	e.UsedAt = m.now()
	m.entries[url] = e
	if m.table != nil {
		if err := m.table.Touch(url); err != nil {
			m.logger.Debug().Err(err).Str("image", url).Msg("touch ink entry")
		}
	}
	return string(e.Value), true
}

// Has reports whether url has stored ink, without marking it used.
func (m *InkMap) Has(url string) bool {
	_, ok := m.entries[url]
	return ok
}

// Put stores dataURL for url, then applies the eviction policy.
func (m *InkMap) Put(url, dataURL string) {
	now := m.now()
	m.entries[url] = types.Entry{Key: url, Value: []byte(dataURL), UpdatedAt: now, UsedAt: now}
	if m.table != nil {
		if err := m.table.Set(url, []byte(dataURL)); err != nil {
			m.logger.Debug().Err(err).Str("image", url).Msg("write ink entry")
		}
	}
	for _, key := range m.policy.Evict(m.list()) {
		m.logger.Debug().Str("image", key).Msg("evict ink entry")
		m.Delete(key)
	}
}

// Delete forgets the ink for url.
func (m *InkMap) Delete(url string) {
	delete(m.entries, url)
	if m.table == nil {
		return
	}
	if err := m.table.Delete(url); err != nil {
		m.logger.Debug().Err(err).Str("image", url).Msg("delete ink entry")
	}
}

// Len returns the number of stored surfaces.
func (m *InkMap) Len() int { return len(m.entries) }

// Bytes returns the total size of all stored values.
func (m *InkMap) Bytes() int {
	n := 0
	for _, e := range m.entries {
		n += e.Size()
	}
	return n
}

// URLs returns the annotated image URLs in ascending order.
func (m *InkMap) URLs() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *InkMap) list() []types.Entry {
	out := make([]types.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out
}
