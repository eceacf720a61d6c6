package persist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// backupFile is the JSONL file holding one table in a backup directory.
func backupFile(dir, table string) string {
	return filepath.Join(dir, table+".jsonl")
}

// Export writes every standard table of store to <dir>/<table>.jsonl, one
// entry per line. Each file is replaced atomically. It returns the number of
// entries written per table.
func Export(store types.Store, dir string) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}
	counts := make(map[string]int, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		table, err := store.GetTable(name)
		if err != nil {
			return counts, fmt.Errorf("table %s: %w", name, err)
		}
		entries, err := table.Entries()
		if err != nil {
			return counts, fmt.Errorf("reading %s: %w", name, err)
		}
		records := make([]json.RawMessage, 0, len(entries))
		for _, e := range entries {
			b, err := json.Marshal(e)
			if err != nil {
				return counts, fmt.Errorf("encoding %s/%s: %w", name, e.Key, err)
			}
			records = append(records, b)
		}
		if err := writeJSONL(backupFile(dir, name), records); err != nil {
			return counts, fmt.Errorf("writing %s: %w", name, err)
		}
		counts[name] = len(records)
	}
	return counts, nil
}

// Import reads <dir>/<table>.jsonl for every standard table and sets each
// entry into store. Missing files are skipped, as are malformed lines and
// entries with an empty key. It returns the number of entries imported per
// table.
func Import(store types.Store, dir string) (map[string]int, error) {
	counts := make(map[string]int, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		records, err := readJSONL(backupFile(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return counts, err
		}
		table, err := store.GetTable(name)
		if err != nil {
			return counts, fmt.Errorf("table %s: %w", name, err)
		}
		for _, rec := range records {
			var e types.Entry
			if err := json.Unmarshal(rec, &e); err != nil || e.Key == "" {
				continue
			}
			if err := table.Set(e.Key, e.Value); err != nil {
				return counts, fmt.Errorf("importing %s/%s: %w", name, e.Key, err)
			}
			counts[name]++
		}
	}
	return counts, nil
}

// readJSONL returns each non-empty, valid line of path. Malformed lines are
// skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, cp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL writes records to path through a temp file, fsync and rename.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
