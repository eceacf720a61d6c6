package readme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

func TestBlock(t *testing.T) {
	got := Block(types.InfeasibilityMap{42: "missing piece", 7: "no solution"})
	want := StartMarker + "\n\n" +
		introLine + "\n\n" +
		"- 007 — *no solution*\n" +
		"- 042 — *missing piece*\n\n" +
		EndMarker
	assert.Equal(t, want, got)
}

func TestBlockEmpty(t *testing.T) {
	want := StartMarker + "\n\n" + emptyLine + "\n\n" + EndMarker
	assert.Equal(t, want, Block(nil))
	assert.Equal(t, want, Block(types.InfeasibilityMap{}))
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "replaces between markers",
			text: "# Title\n" + StartMarker + "\nold\n" + EndMarker + "\ntail\n",
			want: "# Title\nNEW\ntail\n",
		},
		{
			name: "keeps later end markers",
			text: StartMarker + "x" + EndMarker + " mid " + EndMarker,
			want: "NEW mid " + EndMarker,
		},
		{name: "no markers", text: "plain", wantErr: true},
		{name: "end before start", text: EndMarker + StartMarker, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replace(tt.text, "NEW")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMarkersMissing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	readmePath := filepath.Join(dir, "README.md")
	feedPath := filepath.Join(dir, "impossible.json")
	require.NoError(t, os.WriteFile(readmePath, []byte("intro\n"+StartMarker+"\n"+EndMarker+"\noutro\n"), 0o644))
	require.NoError(t, os.WriteFile(feedPath, []byte(`{"3": "bad scan", "oops": "skip"}`), 0o644))

	changed, err := Update(readmePath, feedPath)
	require.NoError(t, err)
	assert.True(t, changed)

	b, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "- 003 — *bad scan*")
	assert.Contains(t, string(b), "outro\n")
	assert.NotContains(t, string(b), "oops")

	changed, err = Update(readmePath, feedPath)
	require.NoError(t, err)
	assert.False(t, changed, "second run is a no-op")
}

func TestUpdateErrors(t *testing.T) {
	dir := t.TempDir()
	readmePath := filepath.Join(dir, "README.md")
	feedPath := filepath.Join(dir, "impossible.json")

	_, err := Update(readmePath, feedPath)
	assert.Error(t, err, "missing feed")

	require.NoError(t, os.WriteFile(feedPath, []byte(`{}`), 0o644))
	_, err = Update(readmePath, feedPath)
	assert.Error(t, err, "missing readme")

	require.NoError(t, os.WriteFile(readmePath, []byte("no markers"), 0o644))
	_, err = Update(readmePath, feedPath)
	assert.ErrorIs(t, err, ErrMarkersMissing)
}
