// Shared helpers for puzzlebook CLI commands.
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/internal/feed"
	"github.com/mesh-intelligence/puzzlebook/internal/persist"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
	"github.com/mesh-intelligence/puzzlebook/pkg/store"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// openStore opens the configured backend. The caller must defer Detach.
func openStore(log zerolog.Logger) (types.Store, error) {
	s, err := store.Open(appConfig, log)
	if err != nil {
		return nil, sysError(fmt.Errorf("open store: %w", err))
	}
	return s, nil
}

// table returns the named table, or nil when the store cannot provide it.
// The persist maps treat a nil table as memory-only.
func table(s types.Store, name string, log zerolog.Logger) types.Table {
	t, err := s.GetTable(name)
	if err != nil {
		log.Debug().Err(err).Str("table", name).Msg("table unavailable")
		return nil
	}
	return t
}

// loadStores loads the solved, ink and theme maps from s.
func loadStores(s types.Store, log zerolog.Logger) session.Stores {
	return session.Stores{
		Solved: persist.LoadSolved(table(s, types.SolvedTable, log), log),
		Ink:    persist.LoadInk(table(s, types.InkTable, log), persist.PolicyFor(appConfig.Ink), log),
		Theme:  persist.LoadTheme(table(s, types.PrefsTable, log), log),
	}
}

// loadCatalog fetches both feeds from the configured base. A record feed
// failure is fatal.
func loadCatalog(ctx context.Context, log zerolog.Logger) (feed.Result, error) {
	res, err := feed.Load(ctx, appConfig.Feed, log)
	if err != nil {
		return feed.Result{}, sysError(err)
	}
	log.Debug().
		Int("records", len(res.Records)).
		Int("infeasible", len(res.Infeasible)).
		Str("feed", appConfig.Feed).
		Msg("catalog loaded")
	return res, nil
}

// unavailableStore stands in for a backend that failed to attach. Every
// table lookup fails, so the persist maps fall back to memory only.
type unavailableStore struct{ err error }

func (u unavailableStore) GetTable(string) (types.Table, error) { return nil, u.err }
func (u unavailableStore) Attach(types.Config) error { return u.err }
func (u unavailableStore) Detach() error { return nil }

// openSession loads the catalog and the store and starts a session over
// them. A store that cannot attach is logged and replaced by memory-only
// state; only a record feed failure is returned. The returned store must be
// detached by the caller.
func openSession(ctx context.Context, opts session.Options, log zerolog.Logger) (*session.Session, types.Store, error) {
	cat, err := loadCatalog(ctx, log)
	if err != nil {
		return nil, nil, err
	}
	var s types.Store
	s, err = store.Open(appConfig, log)
	if err != nil {
		log.Debug().Err(err).Str("data_dir", appConfig.DataDir).Msg("store unavailable, state is memory only")
		s = unavailableStore{err: err}
	}
	opts.PageSize = appConfig.EffectivePageSize()
	if opts.InkWidth <= 0 {
		opts.InkWidth = appConfig.Ink.Width
	}
	if opts.InkHeight <= 0 {
		opts.InkHeight = appConfig.Ink.Height
	}
	sess := session.New(cat.Records, cat.Infeasible, loadStores(s, log), opts, log)
	return sess, s, nil
}

// parseID parses a record id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid puzzle id %q", s))
	}
	return id, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}
