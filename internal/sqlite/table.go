package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

const timeFormat = time.RFC3339Nano

// table implements types.Table for one SQLite table. The name comes from
// types.StandardTableNames, never from user input, so it is safe to format
// into statements.
type table struct {
	name    string
	backend *Backend
}

// Get retrieves the entry for key.
// Returns ErrInvalidKey if key is empty, ErrNotFound if absent.
func (t *table) Get(key string) (types.Entry, error) {
	if key == "" {
		return types.Entry{}, types.ErrInvalidKey
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Entry{}, types.ErrStoreDetached
	}

	row := t.backend.db.QueryRow(
		fmt.Sprintf("SELECT key, value, rev, updated_at, used_at FROM %s WHERE key = ?", t.name), key)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, types.ErrNotFound
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("get %s/%s: %w", t.name, key, err)
	}
	return e, nil
}

// Set creates or overwrites key with a fresh revision.
func (t *table) Set(key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	if value == nil {
		value = []byte{}
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	now := t.backend.now().UTC().Format(timeFormat)
	_, err := t.backend.db.Exec(fmt.Sprintf(`INSERT INTO %s (key, value, rev, updated_at, used_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    rev = excluded.rev,
    updated_at = excluded.updated_at,
    used_at = excluded.used_at`, t.name), key, value, newRev(), now, now)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", t.name, key, err)
	}
	return nil
}

// Touch refreshes used_at for key.
// Returns ErrNotFound if absent.
func (t *table) Touch(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	now := t.backend.now().UTC().Format(timeFormat)
	res, err := t.backend.db.Exec(fmt.Sprintf("UPDATE %s SET used_at = ? WHERE key = ?", t.name), now, key)
	if err != nil {
		return fmt.Errorf("touch %s/%s: %w", t.name, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch %s/%s: %w", t.name, key, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (t *table) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	if _, err := t.backend.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE key = ?", t.name), key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", t.name, key, err)
	}
	return nil
}

// Entries returns every entry ordered by key.
func (t *table) Entries() ([]types.Entry, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := t.backend.db.Query(
		fmt.Sprintf("SELECT key, value, rev, updated_at, used_at FROM %s ORDER BY key", t.name))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t.name, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (types.Entry, error) {
	var (
		e               types.Entry
		updated, usedAt string
	)
	if err := s.Scan(&e.Key, &e.Value, &e.Rev, &updated, &usedAt); err != nil {
		return types.Entry{}, err
	}
	// Unparseable timestamps read as zero; the value is still usable.
	e.UpdatedAt, _ = time.Parse(timeFormat, updated)
	e.UsedAt, _ = time.Parse(timeFormat, usedAt)
	return e, nil
}
