package types

import (
	"errors"
	"time"
)

// Standard table names for Store.GetTable.
const (
	SolvedTable = "solved"
	InkTable    = "ink"
	PrefsTable  = "prefs"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	SolvedTable,
	InkTable,
	PrefsTable,
}

// Store is the durable local state behind puzzlebook. Callers attach to a
// backend, access tables by name, and detach when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach opens the backend described by config, creating DataDir if
	// needed. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, table operations return ErrStoreDetached.
	Detach() error
}

// Entry is one key/value pair in a Table. Rev is a UUID v7 assigned by the
// backend on every Set.
type Entry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	Rev       string    `json:"rev,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UsedAt    time.Time `json:"used_at"`
}

// Size is the number of value bytes held by the entry.
func (e Entry) Size() int { return len(e.Value) }

// Table is a string-keyed byte-valued map with write-through persistence.
type Table interface {
	// Get returns the entry for key. Returns ErrNotFound if absent.
	Get(key string) (Entry, error)

	// Set creates or overwrites key. UpdatedAt and UsedAt are refreshed.
	Set(key string, value []byte) error

	// Touch refreshes UsedAt for key without changing its value.
	// Returns ErrNotFound if absent.
	Touch(key string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Entries returns every entry ordered by key.
	Entries() ([]Entry, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)

// Table operation errors.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrInvalidKey = errors.New("invalid entry key")
)
