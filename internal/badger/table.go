package badger

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// envelope is the stored form of one entry.
type envelope struct {
	Value     []byte    `json:"value"`
	Rev       string    `json:"rev"`
	UpdatedAt time.Time `json:"updated_at"`
	UsedAt    time.Time `json:"used_at"`
}

// table implements types.Table over the "<name>/" key prefix.
type table struct {
	name    string
	backend *Backend
}

func (t *table) prefix() []byte { return []byte(t.name + "/") }

func (t *table) dbKey(key string) []byte { return []byte(t.name + "/" + key) }

// db returns the open database, or ErrStoreDetached. The caller holds
// backend.mu.
func (t *table) db() (*badger.DB, error) {
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}
	return t.backend.db, nil
}

func readEnvelope(item *badger.Item) (envelope, error) {
	var env envelope
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &env)
	})
	return env, err
}

func writeEnvelope(txn *badger.Txn, k []byte, env envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return txn.Set(k, b)
}

// Get retrieves the entry for key.
func (t *table) Get(key string) (types.Entry, error) {
	if key == "" {
		return types.Entry{}, types.ErrInvalidKey
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	db, err := t.db()
	if err != nil {
		return types.Entry{}, err
	}

	var env envelope
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(t.dbKey(key))
		if err != nil {
			return err
		}
		env, err = readEnvelope(item)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.Entry{}, types.ErrNotFound
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("get %s/%s: %w", t.name, key, err)
	}
	return env.entry(key), nil
}

// Set creates or overwrites key with a fresh revision.
func (t *table) Set(key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	db, err := t.db()
	if err != nil {
		return err
	}

	now := t.backend.now().UTC()
	env := envelope{Value: value, Rev: newRev(), UpdatedAt: now, UsedAt: now}
	if err := db.Update(func(txn *badger.Txn) error {
		return writeEnvelope(txn, t.dbKey(key), env)
	}); err != nil {
		return fmt.Errorf("set %s/%s: %w", t.name, key, err)
	}
	return nil
}

// Touch refreshes UsedAt for key.
func (t *table) Touch(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	db, err := t.db()
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badger.Txn) error {
		k := t.dbKey(key)
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		env, err := readEnvelope(item)
		if err != nil {
			return err
		}
		env.UsedAt = t.backend.now().UTC()
		return writeEnvelope(txn, k, env)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("touch %s/%s: %w", t.name, key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (t *table) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	db, err := t.db()
	if err != nil {
		return err
	}

	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Delete(t.dbKey(key))
	}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", t.name, key, err)
	}
	return nil
}

// Entries returns every entry ordered by key. Entries whose envelope cannot
// be decoded are skipped.
func (t *table) Entries() ([]types.Entry, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	db, err := t.db()
	if err != nil {
		return nil, err
	}

	var out []types.Entry
	prefix := t.prefix()
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			env, err := readEnvelope(item)
			if err != nil {
				continue
			}
			out = append(out, env.entry(string(item.Key()[len(prefix):])))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

func (e envelope) entry(key string) types.Entry {
	return types.Entry{Key: key, Value: e.Value, Rev: e.Rev, UpdatedAt: e.UpdatedAt, UsedAt: e.UsedAt}
}
