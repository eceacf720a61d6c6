package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env is an isolated config dir, data dir and feed dir for one test.
type env struct {
	configDir string
	dataDir   string
	feedDir   string
}

func newEnv(t *testing.T, records int) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		feedDir:   filepath.Join(root, "feed"),
	}
	require.NoError(t, os.MkdirAll(e.feedDir, 0o755))
	writeFeed(t, e.feedDir, records)
	return e
}

func writeFeed(t *testing.T, dir string, n int) {
	t.Helper()
	puzzles := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		puzzles = append(puzzles, map[string]any{
			"id":            i,
			"title":         fmt.Sprintf("Puzzle %d - Maze %d", i, i),
			"solution_text": fmt.Sprintf("exit %d", i),
			"images": map[string]any{
				"puzzle": []string{fmt.Sprintf("https://img/%d.png", i)},
				"hint1":  []string{fmt.Sprintf("https://img/%d-h1.png", i)},
				"hint2":  []string{fmt.Sprintf("https://img/%d-h2.png", i)},
			},
		})
	}
	data, err := json.Marshal(map[string]any{"puzzles": puzzles})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "puzzles.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "impossible.json"), []byte(`{"7": "no solution"}`), 0o644))
}

// resetFlags restores every flag variable to its default between runs.
func resetFlags() {
	flagConfigDir, flagDataDir, flagFeed = "", "", ""
	flagJSON, flagDebug = false, false
	flagListPage, flagRevealAll, flagHints = 0, false, 0
	flagInkPoints, flagInkEraser, flagInkYes, flagInkOut = "", false, false, ""
	flagInkWidth, flagInkHeight, flagInkInput = 0, 0, "mouse"
	flagReadmeFile, flagReadmeImpossible = "README.md", "impossible.json"
	logger = zerolog.Nop()
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--feed", e.feedDir,
	}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err)
	return out
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	e := newEnv(t, 1)
	e.mustRun(t, "version")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Equal(t, "sqlite", appConfig.Backend)
	assert.Equal(t, 10, appConfig.PageSize)
	assert.Equal(t, 800, appConfig.Ink.Width)
	assert.Equal(t, e.dataDir, appConfig.DataDir)
}

func TestInvalidConfigIsUserError(t *testing.T) {
	e := newEnv(t, 1)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("backend: mongo\n"), 0o644))

	_, err := e.run(t, "list")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestListPages(t *testing.T) {
	e := newEnv(t, 23)

	out := e.mustRun(t, "list")
	assert.Contains(t, out, "#001  Maze 1")
	assert.Contains(t, out, "#007  Maze 7  [infeasible: no solution]")
	assert.NotContains(t, out, "#011")
	assert.Contains(t, out, "Page 1 / 3 • 10 per page")
	assert.Contains(t, out, "Showing 23 results — 10 per page")

	out = e.mustRun(t, "list", "--page", "9")
	assert.Contains(t, out, "Page 3 / 3", "page is clamped")
	assert.Contains(t, out, "#023")

	for _, n := range []string{"0", "-4"} {
		out = e.mustRun(t, "list", "--page", n)
		assert.Contains(t, out, "Page 1 / 3", "page %s is clamped", n)
		assert.Contains(t, out, "#001")
	}
}

func TestStoreUnavailableDegradesToMemory(t *testing.T) {
	e := newEnv(t, 12)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.dataDir), 0o755))
	require.NoError(t, os.WriteFile(e.dataDir, []byte("not a directory"), 0o644))

	out := e.mustRun(t, "list")
	assert.Contains(t, out, "#001  Maze 1")
	assert.Contains(t, out, "Page 1 / 2")

	out = e.mustRun(t, "show", "3", "--hints", "1")
	assert.Contains(t, out, "https://img/3-h1.png")

	out = e.mustRun(t, "random")
	assert.Contains(t, out, "Maze")

	out = e.mustRun(t, "ink", "draw", "https://img/2.png", "--points", "2,2 20,20")
	assert.Contains(t, out, "drew 1 of 1 strokes")

	_, err := e.run(t, "solved", "list")
	assert.Equal(t, exitSysError, exitCode(err), "store commands still need the store")
}

func TestListJSON(t *testing.T) {
	e := newEnv(t, 23)

	out := e.mustRun(t, "list", "#02", "--json")
	var page pageJSON
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "#02", page.Query)
	assert.Equal(t, 4, page.Matched)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 4)
	assert.Equal(t, 20, page.Items[0].ID)
}

func TestShowDisclosure(t *testing.T) {
	e := newEnv(t, 12)

	out := e.mustRun(t, "show", "11")
	assert.Contains(t, out, "#011  Maze 11")
	assert.Contains(t, out, "https://img/11.png")
	assert.Contains(t, out, "Hint 1 (closed)")
	assert.Contains(t, out, "Hint 2 (locked)")
	assert.Contains(t, out, "Solution (hidden)")
	assert.NotContains(t, out, "exit 11")

	out = e.mustRun(t, "show", "11", "--hints", "2")
	assert.Contains(t, out, "https://img/11-h1.png")
	assert.Contains(t, out, "https://img/11-h2.png")

	out = e.mustRun(t, "show", "11", "--reveal-all", "--json")
	var rec recordJSON
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.NotNil(t, rec.SolutionOpen)
	assert.True(t, *rec.SolutionOpen)
	assert.Equal(t, "exit 11", rec.SolutionText)
	require.Len(t, rec.Hints, 2)
	assert.Equal(t, "open", rec.Hints[0].State)
	assert.Equal(t, "locked", rec.Hints[1].State, "reveal-all does not unlock")
}

func TestShowErrors(t *testing.T) {
	e := newEnv(t, 3)

	_, err := e.run(t, "show", "99")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = e.run(t, "show", "abc")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = e.run(t, "show", "1", "--hints", "4")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestRandomWithinQuery(t *testing.T) {
	e := newEnv(t, 23)

	out := e.mustRun(t, "random", "#02", "--json")
	var res struct {
		Page   int        `json:"page"`
		Record recordJSON `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Page)
	assert.Contains(t, []int{20, 21, 22, 23}, res.Record.ID)

	_, err := e.run(t, "random", "no such thing")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestMissingFeedIsSystemError(t *testing.T) {
	e := newEnv(t, 1)
	require.NoError(t, os.Remove(filepath.Join(e.feedDir, "puzzles.json")))

	_, err := e.run(t, "list")
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestSolvedPersists(t *testing.T) {
	e := newEnv(t, 10)

	assert.Equal(t, "#007 marked solved\n", e.mustRun(t, "solved", "toggle", "7"))
	e.mustRun(t, "solved", "toggle", "3")
	assert.Equal(t, "#003\n#007\n2 solved\n", e.mustRun(t, "solved", "list"))

	assert.Contains(t, e.mustRun(t, "list"), "#007  Maze 7  [infeasible: no solution]  [solved]")

	e.mustRun(t, "solved", "toggle", "3")
	assert.Equal(t, "[\n  7\n]\n", e.mustRun(t, "solved", "list", "--json"))
}

func TestThemeCommand(t *testing.T) {
	e := newEnv(t, 1)

	assert.Equal(t, "dark\n", e.mustRun(t, "theme"))
	assert.Equal(t, "light\n", e.mustRun(t, "theme", "toggle"))
	assert.Equal(t, "light\n", e.mustRun(t, "theme"))
	assert.Equal(t, "dark\n", e.mustRun(t, "theme", "dark"))

	_, err := e.run(t, "theme", "sepia")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestInkLifecycle(t *testing.T) {
	e := newEnv(t, 2)
	url := "https://img/1.png"

	out := e.mustRun(t, "ink", "draw", url, "--width", "40", "--height", "30", "--points", "2,2 20,20; 30,5 30,25")
	assert.Equal(t, "drew 2 of 2 strokes with pen on https://img/1.png\n", out)

	out = e.mustRun(t, "ink", "list")
	assert.Contains(t, out, url)
	assert.Contains(t, out, "1 images")

	assert.Contains(t, e.mustRun(t, "list"), "#001  Maze 1  [ink: 1]")

	pngPath := filepath.Join(t.TempDir(), "ink.png")
	e.mustRun(t, "ink", "export", url, "--width", "40", "--height", "30", "--out", pngPath)
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	assert.Equal(t, "cleared ink on https://img/1.png\n", e.mustRun(t, "ink", "clear", url, "--yes"))
	assert.Contains(t, e.mustRun(t, "ink", "list"), "0 images")

	_, err = e.run(t, "ink", "export", url, "--out", pngPath)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestInkDrawNeedsCatalogImage(t *testing.T) {
	e := newEnv(t, 2)

	_, err := e.run(t, "ink", "draw", "https://img/9.png", "--points", "1,1 5,5")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = e.run(t, "ink", "draw", "https://img/1.png", "--input", "pencil", "--points", "1,1 5,5")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestInkDrawTouchInput(t *testing.T) {
	e := newEnv(t, 12)
	url := "https://img/12-h2.png"

	out := e.mustRun(t, "ink", "draw", url, "--input", "touch", "--points", "2,2 20,20; 900,900 910,910")
	assert.Equal(t, "drew 1 of 2 strokes with pen on https://img/12-h2.png\n", out)
	assert.Contains(t, e.mustRun(t, "ink", "list"), url)
	assert.Contains(t, e.mustRun(t, "list", "--page", "2"), "#012  Maze 12  [ink: 1]")
}

func TestInkClearOrphanedImage(t *testing.T) {
	e := newEnv(t, 2)
	url := "https://img/2.png"
	e.mustRun(t, "ink", "draw", url, "--points", "2,2 20,20")

	writeFeed(t, e.feedDir, 1)
	_, err := e.run(t, "ink", "draw", url, "--points", "2,2 20,20")
	assert.Equal(t, exitUserError, exitCode(err))

	assert.Equal(t, "cleared ink on https://img/2.png\n", e.mustRun(t, "ink", "clear", url, "--yes"))
	assert.Contains(t, e.mustRun(t, "ink", "list"), "0 images")
}

func TestExportImportAcrossDataDirs(t *testing.T) {
	e := newEnv(t, 10)
	e.mustRun(t, "solved", "toggle", "5")
	e.mustRun(t, "theme", "light")

	backup := t.TempDir()
	out := e.mustRun(t, "export", backup)
	assert.Contains(t, out, "exported 1 solved entries")
	assert.Contains(t, out, "exported 1 prefs entries")

	other := e
	other.dataDir = filepath.Join(t.TempDir(), "other")
	other.mustRun(t, "import", backup)
	assert.Equal(t, "#005\n1 solved\n", other.mustRun(t, "solved", "list"))
	assert.Equal(t, "light\n", other.mustRun(t, "theme"))
}

func TestReadmeCommand(t *testing.T) {
	e := newEnv(t, 1)
	dir := t.TempDir()
	readmePath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readmePath, []byte("# Book\n<!-- IMPOSSIBLE:START -->\nold\n<!-- IMPOSSIBLE:END -->\n"), 0o644))
	impossible := filepath.Join(e.feedDir, "impossible.json")

	out := e.mustRun(t, "readme", "--file", readmePath, "--impossible", impossible)
	assert.Equal(t, "updated "+readmePath+"\n", out)
	data, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- 007 — *no solution*")

	out = e.mustRun(t, "readme", "--file", readmePath, "--impossible", impossible)
	assert.Contains(t, out, "already up to date")

	require.NoError(t, os.WriteFile(readmePath, []byte("no markers"), 0o644))
	_, err = e.run(t, "readme", "--file", readmePath, "--impossible", impossible)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestParseStrokes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{name: "one stroke", in: "1,2 3,4", want: []int{2}},
		{name: "two strokes", in: "1,2 3,4;5,6 7,8 9,10", want: []int{2, 3}},
		{name: "empty strokes dropped", in: " ;1,1 2,2; ", want: []int{2}},
		{name: "fractional", in: "0.5,1.5 2,2", want: []int{2}},
		{name: "missing comma", in: "1 2", wantErr: true},
		{name: "not a number", in: "a,1", wantErr: true},
		{name: "nothing", in: " ; ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStrokes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lens := make([]int, len(got))
			for i, s := range got {
				lens[i] = len(s)
			}
			assert.Equal(t, tt.want, lens)
		})
	}
}

func TestLogLevel(t *testing.T) {
	lvl, err := logLevel("info", true)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	lvl, err = logLevel("", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = logLevel("error", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, lvl)

	_, err = logLevel("loud", false)
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(base))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("wrapped: %w", sysError(base))))
	assert.ErrorIs(t, userError(base), base)
	assert.True(t, strings.HasPrefix(sysError(base).Error(), "boom"))
}
