package persist

import (
	"sort"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Policy decides which ink entries to drop after a write.
type Policy interface {
	// Evict returns the keys to delete from entries.
	Evict(entries []types.Entry) []string
}

// Unbounded never evicts.
type Unbounded struct{}

// Evict implements Policy.
func (Unbounded) Evict([]types.Entry) []string { return nil }

// LRU evicts the least recently used entries until at most MaxEntries remain
// and their values total at most MaxBytes. Zero disables a limit. The most
// recently used entry is always kept, even if it alone exceeds MaxBytes.
type LRU struct {
	MaxEntries int
	MaxBytes   int
}

// Evict implements Policy.
func (p LRU) Evict(entries []types.Entry) []string {
	if len(entries) <= 1 {
		return nil
	}
	sorted := make([]types.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].UsedAt.Equal(sorted[j].UsedAt) {
			return sorted[i].UsedAt.Before(sorted[j].UsedAt)
		}
		return sorted[i].Key < sorted[j].Key
	})

	count := len(sorted)
	bytes := 0
	for _, e := range sorted {
		bytes += e.Size()
	}

	var evict []string
	for _, e := range sorted[:len(sorted)-1] {
		overCount := p.MaxEntries > 0 && count > p.MaxEntries
		overBytes := p.MaxBytes > 0 && bytes > p.MaxBytes
		if !overCount && !overBytes {
			break
		}
		evict = append(evict, e.Key)
		count--
		bytes -= e.Size()
	}
	return evict
}

// PolicyFor returns the policy described by the ink configuration.
func PolicyFor(cfg types.InkConfig) Policy {
	if cfg.MaxEntries <= 0 && cfg.MaxBytes <= 0 {
		return Unbounded{}
	}
	return LRU{MaxEntries: cfg.MaxEntries, MaxBytes: cfg.MaxBytes}
}
