package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Every logical table shares one shape: a string key, an opaque value and
// the bookkeeping columns that back types.Entry. Timestamps are RFC 3339
// strings in UTC with nanoseconds.
const createTableFmt = `CREATE TABLE IF NOT EXISTS %s (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    rev TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    used_at TEXT NOT NULL
);`

// Index DDL for eviction scans over the ink table.
const idxInkUsedAt = `CREATE INDEX IF NOT EXISTS idx_ink_used_at ON ink(used_at);`

// schemaDDL returns the CREATE statements for all standard tables followed by
// their indexes. Every statement is idempotent so the database survives
// re-attach.
func schemaDDL() []string {
	ddl := make([]string, 0, len(types.StandardTableNames)+1)
	for _, name := range types.StandardTableNames {
		ddl = append(ddl, fmt.Sprintf(createTableFmt, name))
	}
	return append(ddl, idxInkUsedAt)
}

// pragmas run once per connection before the schema.
var pragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
}
