// Package badger implements the alternate puzzlebook store on BadgerDB.
//
// All tables share one database under DataDir/badger. A table entry lives at
// the key "<table>/<key>" and its value is a JSON envelope carrying the raw
// value, the revision and both timestamps.
package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// DirName is the database directory inside DataDir.
const DirName = "badger"

// Backend implements types.Store using BadgerDB.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *badger.DB
	tables   map[string]*table
	logger   zerolog.Logger

	// inMemory skips the data directory entirely. Tests only.
	inMemory bool
	now      func() time.Time
}

// NewBackend creates a new Badger backend instance. logger receives
// BadgerDB's own warnings and errors.
func NewBackend(logger zerolog.Logger) *Backend {
	return &Backend{
		tables: make(map[string]*table),
		logger: logger,
		now:    time.Now,
	}
}

// GetTable returns the Table for the given name.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Attach opens DataDir/badger, creating it when missing.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	var opts badger.Options
	if b.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		path := filepath.Join(dataDir, DirName)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("create database directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(badgerLogger{b.logger})

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	for _, name := range types.StandardTableNames {
		b.tables[name] = &table{name: name, backend: b}
	}
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("close badger database: %w", err)
		}
		b.db = nil
	}
	b.attached = false
	b.tables = make(map[string]*table)
	return nil
}

// badgerLogger adapts zerolog to BadgerDB's Logger interface. Info and debug
// chatter is demoted to trace.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Trace().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Str("component", "badger").Msgf(format, args...)
}

func newRev() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
