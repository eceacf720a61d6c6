// Package store is the public entry point for opening a puzzlebook store.
// It hides the backend implementations behind types.Store.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/home/me/.local/share/puzzlebook",
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	defer s.Detach()
package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/internal/badger"
	"github.com/mesh-intelligence/puzzlebook/internal/sqlite"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// New returns an unattached store for the named backend.
// Returns ErrBackendUnknown for anything else.
func New(backend string, logger zerolog.Logger) (types.Store, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendBadger:
		return badger.NewBackend(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// Open creates the backend named by config and attaches it.
func Open(config types.Config, logger zerolog.Logger) (types.Store, error) {
	s, err := New(config.Backend, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, fmt.Errorf("attach %s store: %w", config.Backend, err)
	}
	return s, nil
}
