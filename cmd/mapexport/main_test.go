package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/config"
	"sales-analytics/internal/project"
	"sales-analytics/internal/query/querytest"
)

func TestExportWritesImage(t *testing.T) {
	db := querytest.Seed(t)
	out := filepath.Join(t.TempDir(), "map.png")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--database", db, "--out", out, "--scale", "2", "--pan-x", "-100"})
	require.NoError(t, cmd.Execute())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportMissingDatabase(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--database", filepath.Join(t.TempDir(), "none.db"), "--out", filepath.Join(t.TempDir(), "x.png")})
	assert.Error(t, cmd.Execute())
}

func TestWorkspaceSuppliesPaths(t *testing.T) {
	dir := t.TempDir()
	wsPath := filepath.Join(dir, "w"+project.Extension)
	ws := project.New("w")
	ws.SetDatabase(wsPath, filepath.Join(dir, "sales.db"))
	ws.SetBackground(wsPath, filepath.Join(dir, "world.png"))
	require.NoError(t, ws.Save(wsPath))

	cfg := config.Default()
	require.NoError(t, applyWorkspace(cfg, &options{workspace: wsPath}))
	assert.Equal(t, filepath.Join(dir, "sales.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(dir, "world.png"), cfg.Map.Background)
}

func TestDatabaseFlagOverridesWorkspace(t *testing.T) {
	dir := t.TempDir()
	wsPath := filepath.Join(dir, "w"+project.Extension)
	ws := project.New("w")
	ws.SetDatabase(wsPath, filepath.Join(dir, "missing.db"))
	require.NoError(t, ws.Save(wsPath))

	out := filepath.Join(dir, "map.png")
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--workspace", wsPath, "--database", querytest.Seed(t), "--out", out})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, out)
}
