package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

func TestOpenEachBackend(t *testing.T) {
	for _, backend := range []string{types.BackendSQLite, types.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			s, err := Open(types.Config{Backend: backend, DataDir: t.TempDir()}, zerolog.Nop())
			require.NoError(t, err)
			defer s.Detach()

			tbl, err := s.GetTable(types.SolvedTable)
			require.NoError(t, err)
			require.NoError(t, tbl.Set("3", []byte("true")))
			e, err := tbl.Get("3")
			require.NoError(t, err)
			assert.Equal(t, "true", string(e.Value))
		})
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("mongo", zerolog.Nop())
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(types.Config{Backend: ""}, zerolog.Nop())
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}
