package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := LoadFrom(path)
	assert.Equal(t, "", p.String(KeyLastDatabase))
	assert.True(t, p.Bool(KeyWatchDatabase, true))

	p.SetString(KeyLastDatabase, "/data/chinook.db")
	p.SetBool(KeyWatchDatabase, false)
	require.NoError(t, p.Save())

	again := LoadFrom(path)
	assert.Equal(t, "/data/chinook.db", again.String(KeyLastDatabase))
	assert.False(t, again.Bool(KeyWatchDatabase, true))
	assert.Equal(t, "world_map.png", again.StringWithFallback(KeyLastBackground, "world_map.png"))
}

func TestCorruptFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	p := LoadFrom(path)
	assert.Equal(t, "", p.String(KeyLastBackground))
	assert.Equal(t, path, p.Path())
}
