package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const puzzlesJSON = `{"puzzles": [
  {"id": 1, "title": "Puzzle 1 - Bridges", "images": {"puzzle": ["https://img/1.png"]}},
  {"id": 7, "title": "Seven", "solution_text": "go left", "images": {"puzzle": ["https://img/7.png"], "hint1": ["https://img/7h.png"]}}
]}`

func writeFeed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadFromDirectory(t *testing.T) {
	dir := writeFeed(t, map[string]string{
		RecordFile:     puzzlesJSON,
		InfeasibleFile: `{"7": "no solution", "x": "ignored"}`,
	})

	res, err := Load(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 7, res.Records[1].ID)
	assert.Equal(t, "go left", res.Records[1].SolutionText)
	assert.Equal(t, []string{"https://img/7h.png"}, res.Records[1].Images.Hint1)
	assert.Equal(t, "no solution", res.Infeasible.Reason(7))
	assert.Len(t, res.Infeasible, 1)
}

func TestLoadFromFileInDirectory(t *testing.T) {
	dir := writeFeed(t, map[string]string{RecordFile: puzzlesJSON, "index.html": "<html>"})

	res, err := Load(context.Background(), filepath.Join(dir, "index.html"), zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
}

func TestMissingPuzzlesKeyIsEmpty(t *testing.T) {
	dir := writeFeed(t, map[string]string{RecordFile: `{"other": 1}`})

	res, err := Load(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Infeasible, "missing infeasibility feed yields an empty map")
}

func TestRecordFeedFailureIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing", map[string]string{InfeasibleFile: `{}`}},
		{"malformed", map[string]string{RecordFile: `{"puzzles": [`}},
		{"wrong shape", map[string]string{RecordFile: `{"puzzles": "many"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeFeed(t, tt.files), zerolog.Nop())
			assert.ErrorIs(t, err, ErrRecordFeed)
		})
	}
}

func TestInfeasibilityFeedFailureDegrades(t *testing.T) {
	for _, body := range []string{`not json`, `["7"]`, `null`} {
		dir := writeFeed(t, map[string]string{RecordFile: puzzlesJSON, InfeasibleFile: body})
		res, err := Load(context.Background(), dir, zerolog.Nop())
		require.NoError(t, err, body)
		assert.Empty(t, res.Infeasible, body)
		assert.NotNil(t, res.Infeasible, body)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		switch r.URL.Path {
		case "/site/puzzles.json":
			w.Write([]byte(puzzlesJSON))
		case "/site/impossible.json":
			w.Write([]byte(`{" 1 ": "broken", "2.0": "also"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res, err := NewLoader(srv.Client(), zerolog.Nop()).Load(context.Background(), srv.URL+"/site/index.html")
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, "broken", res.Infeasible.Reason(1))
	assert.Equal(t, "also", res.Infeasible.Reason(2))
	assert.EqualValues(t, 2, hits.Load(), "each feed is fetched exactly once")
}

func TestHTTPErrorStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/puzzles.json" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewLoader(srv.Client(), zerolog.Nop()).Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecordFeed))
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.EqualValues(t, 2, hits.Load(), "no retries")
}

func TestHTTPInfeasibleNotFoundDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/puzzles.json" {
			w.Write([]byte(puzzlesJSON))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	res, err := NewLoader(srv.Client(), zerolog.Nop()).Load(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Empty(t, res.Infeasible)
}

func TestCanceledContext(t *testing.T) {
	dir := writeFeed(t, map[string]string{RecordFile: puzzlesJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, dir, zerolog.Nop())
	assert.ErrorIs(t, err, ErrRecordFeed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://host.example", "https://host.example/puzzles.json"},
		{"https://host.example/", "https://host.example/puzzles.json"},
		{"https://host.example/index.html", "https://host.example/puzzles.json"},
		{"https://host.example/book", "https://host.example/book/puzzles.json"},
		{"https://host.example/book/", "https://host.example/book/puzzles.json"},
		{"https://host.example/book/index.html?x=1#top", "https://host.example/book/puzzles.json"},
		{"", "puzzles.json"},
		{"feeds", filepath.Join("feeds", "puzzles.json")},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := Resolve(tt.base, RecordFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
