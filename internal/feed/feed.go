// Package feed loads the record feed and the optional infeasibility feed
// from a base location: a local directory or an http(s) URL.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// File names resolved against the base location.
const (
	RecordFile     = "puzzles.json"
	InfeasibleFile = "impossible.json"
)

// ErrRecordFeed marks a failure to fetch or parse the record feed. Without
// records there is nothing to browse, so callers treat it as fatal.
var ErrRecordFeed = errors.New("failed to load puzzles.json")

// DefaultTimeout bounds each HTTP fetch when the Loader has no client.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of one Load.
type Result struct {
	Records    []types.Record
	Infeasible types.InfeasibilityMap
}

// recordDoc is the top-level shape of puzzles.json.
type recordDoc struct {
	Puzzles []types.Record `json:"puzzles"`
}

// Loader fetches feeds. The zero value is not usable; call NewLoader.
type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

// NewLoader returns a Loader. A nil client gets a default with
// DefaultTimeout.
func NewLoader(client *http.Client, logger zerolog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Loader{client: client, logger: logger}
}

// Load fetches both feeds concurrently. A record feed failure is returned
// wrapped in ErrRecordFeed. An infeasibility feed failure is logged at
// debug level and yields an empty map. Neither fetch is retried.
func (l *Loader) Load(ctx context.Context, base string) (Result, error) {
	var (
		res        Result
		infeasible types.InfeasibilityMap
	)

	var g errgroup.Group
	g.Go(func() error {
		body, err := l.fetch(ctx, base, RecordFile)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRecordFeed, err)
		}
		var doc recordDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return fmt.Errorf("%w: parse: %w", ErrRecordFeed, err)
		}
		if doc.Puzzles == nil {
			doc.Puzzles = []types.Record{}
		}
		res.Records = doc.Puzzles
		return nil
	})
	g.Go(func() error {
		infeasible = l.loadInfeasible(ctx, base)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res.Infeasible = infeasible
	l.logger.Debug().
		Int("records", len(res.Records)).
		Int("infeasible", len(res.Infeasible)).
		Str("base", base).
		Msg("feeds loaded")
	return res, nil
}

func (l *Loader) loadInfeasible(ctx context.Context, base string) types.InfeasibilityMap {
	body, err := l.fetch(ctx, base, InfeasibleFile)
	if err != nil {
		l.logger.Debug().Err(err).Msg("infeasibility feed unavailable")
		return types.InfeasibilityMap{}
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		l.logger.Debug().Err(err).Msg("infeasibility feed unparseable")
		return types.InfeasibilityMap{}
	}
	return types.NormalizeInfeasible(raw)
}

// Load is shorthand for NewLoader(nil, logger).Load(ctx, base).
func Load(ctx context.Context, base string, logger zerolog.Logger) (Result, error) {
	return NewLoader(nil, logger).Load(ctx, base)
}

func isRemote(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// Resolve returns the location of name relative to base. A remote base is
// treated as a directory: a trailing file name (a path segment containing a
// dot) is dropped, anything else gets a trailing slash. A local base that
// names a file resolves against that file's directory.
func Resolve(base, name string) (string, error) {
	if base == "" {
		base = "."
	}
	if isRemote(base) {
		u, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("parse base %q: %w", base, err)
		}
		dir := u.Path
		switch {
		case dir == "":
			dir = "/"
		case strings.HasSuffix(dir, "/"):
		case strings.Contains(path.Base(dir), "."):
			dir = path.Dir(dir) + "/"
		default:
			dir += "/"
		}
		if dir == "//" {
			dir = "/"
		}
		return u.ResolveReference(&url.URL{Path: dir + name}).String(), nil
	}
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		base = filepath.Dir(base)
	}
	return filepath.Join(base, name), nil
}

func (l *Loader) fetch(ctx context.Context, base, name string) ([]byte, error) {
	loc, err := Resolve(base, name)
	if err != nil {
		return nil, err
	}
	if !isRemote(base) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(loc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", loc, err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, loc)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	return b, nil
}
