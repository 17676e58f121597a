package mainwindow

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/app"
	"sales-analytics/internal/config"
	"sales-analytics/internal/project"
	"sales-analytics/internal/query/querytest"
	"sales-analytics/internal/viewport"
	"sales-analytics/pkg/geometry"
	"sales-analytics/ui/prefs"
)

func newTestWindow(t *testing.T) (*MainWindow, *prefs.Prefs) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	cfg := config.Default()
	cfg.Charts.Width, cfg.Charts.Height = 320, 240
	state := app.NewState(cfg, nil, zerolog.Nop())
	t.Cleanup(func() { _ = state.Close() })

	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	p.SetBool(prefs.KeyWatchDatabase, false)

	mw := New(a, state, p, zerolog.Nop())
	return mw, p
}

func TestOpenDatabaseUpdatesTitleAndPrefs(t *testing.T) {
	mw, p := newTestWindow(t)
	path := querytest.Seed(t)

	require.NoError(t, mw.state.OpenDatabase(context.Background(), path))
	assert.Equal(t, appTitle+" - chinook.db", mw.Title())
	assert.Equal(t, path, p.String(prefs.KeyLastDatabase))
	assert.Nil(t, mw.watcher)
}

func TestButtonsFillTableAndViews(t *testing.T) {
	mw, _ := newTestWindow(t)
	require.NoError(t, mw.state.OpenDatabase(context.Background(), querytest.Seed(t)))

	test.Tap(mw.buttons[app.ReportMonthlySales])
	assert.Equal(t, []string{"D", "Total sales"}, mw.table.headers)
	assert.Len(t, mw.table.rows, 4)
	assert.NotNil(t, mw.chart.Image())
	assert.Equal(t, 0, mw.tabs.SelectedIndex())

	test.Tap(mw.buttons[app.ReportMap])
	require.NotNil(t, mw.canvas.Scene())
	assert.Equal(t, 1, mw.tabs.SelectedIndex())
	status, err := mw.status.Get()
	require.NoError(t, err)
	assert.Contains(t, status, "Atlantis")

	test.Tap(mw.buttons[app.ReportTopArtists])
	assert.Equal(t, []string{"Artist", "Total Quantity", "Total Sales"}, mw.table.headers)
	assert.Equal(t, "AC/DC", mw.table.cell(0, 0))
	assert.Equal(t, "", mw.table.cell(99, 0))
}

func TestRestoreSession(t *testing.T) {
	mw, p := newTestWindow(t)
	path := querytest.Seed(t)
	p.SetString(prefs.KeyLastDatabase, path)
	p.SetString(prefs.KeyLastBackground, "/maps/world.tif")

	mw.RestoreSession()
	assert.Equal(t, path, mw.state.DatabasePath())
	assert.Equal(t, "/maps/world.tif", mw.state.Background())
}

func TestRestoreSessionKeepsConfiguredBackground(t *testing.T) {
	mw, _ := newTestWindow(t)

	mw.RestoreSession()
	assert.Equal(t, config.Default().Map.Background, mw.state.Background())
	assert.Empty(t, mw.state.DatabasePath())
}

func TestButtonOrder(t *testing.T) {
	mw, _ := newTestWindow(t)
	require.Len(t, mw.buttons, len(app.Reports))
	assert.Equal(t, "Interactive Map", mw.buttons[app.ReportMap].Text)
}

func TestWorkspaceRoundTrip(t *testing.T) {
	mw, _ := newTestWindow(t)
	db := querytest.Seed(t)
	require.NoError(t, mw.state.OpenDatabase(context.Background(), db))
	mw.state.SetBackground("/maps/world.tif")
	test.Tap(mw.buttons[app.ReportMap])
	mw.canvas.SetTransform(viewport.ViewTransform{Scale: 2, Pan: geometry.NewPoint2D(-15, 4)})
	require.Equal(t, 2.0, mw.canvas.Transform().Scale)

	path := filepath.Join(t.TempDir(), "q1"+project.Extension)
	require.NoError(t, mw.SaveWorkspace(path))

	other, p := newTestWindow(t)
	require.NoError(t, other.OpenWorkspace(path))
	assert.Equal(t, db, other.state.DatabasePath())
	assert.Equal(t, "/maps/world.tif", other.state.Background())
	assert.Equal(t, "/maps/world.tif", p.String(prefs.KeyLastBackground))

	cur, ok := other.state.Current()
	require.True(t, ok)
	assert.Equal(t, app.ReportMap, cur)
	require.NotNil(t, other.canvas.Scene())
	assert.Equal(t, viewport.IdentityTransform(), other.canvas.Transform())
}

func TestOpenWorkspaceMissing(t *testing.T) {
	mw, _ := newTestWindow(t)
	assert.Error(t, mw.OpenWorkspace(filepath.Join(t.TempDir(), "none"+project.Extension)))
}

func TestWorkspacePathDropsBareFile(t *testing.T) {
	dir := t.TempDir()
	bare := filepath.Join(dir, "q1")
	require.NoError(t, os.WriteFile(bare, nil, 0o644))

	assert.Equal(t, bare+project.Extension, workspacePath(bare))
	assert.NoFileExists(t, bare)

	kept := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(kept, []byte("keep"), 0o644))
	assert.Equal(t, kept+project.Extension, workspacePath(kept))
	assert.FileExists(t, kept)

	named := filepath.Join(dir, "q2"+project.Extension)
	assert.Equal(t, named, workspacePath(named))
}

func watcherOf(mw *MainWindow) *app.FileWatcher {
	mw.watcherMu.Lock()
	defer mw.watcherMu.Unlock()
	return mw.watcher
}

// Run with -race: the watcher goroutine replaces the map scene while the
// test goroutine keeps dragging and reading the canvas.
func TestDatabaseChangeRefreshesDuringInput(t *testing.T) {
	mw, p := newTestWindow(t)
	p.SetBool(prefs.KeyWatchDatabase, true)
	mw.watchEvery = 10 * time.Millisecond
	t.Cleanup(mw.Close)

	var scenes atomic.Int32
	mw.state.On(app.EventSceneChanged, func(interface{}) { scenes.Add(1) })

	path := querytest.Seed(t)
	require.NoError(t, mw.state.OpenDatabase(context.Background(), path))
	require.NotNil(t, watcherOf(mw))
	test.Tap(mw.buttons[app.ReportMap])
	require.Equal(t, int32(1), scenes.Load())

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	deadline := time.Now().Add(3 * time.Second)
	for scenes.Load() < 2 && time.Now().Before(deadline) {
		mw.canvas.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}})
		mw.canvas.Scrolled(&fyne.ScrollEvent{
			PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 40)},
			Scrolled:   fyne.NewDelta(0, 1),
		})
		mw.canvas.DragEnd()
		_ = mw.canvas.Scene()
		_ = mw.canvas.Transform()
		mw.table.cell(0, 0)
	}
	assert.GreaterOrEqual(t, scenes.Load(), int32(2))
	assert.NotNil(t, mw.canvas.Scene())
}

func TestClosingWindowStopsWatcher(t *testing.T) {
	mw, p := newTestWindow(t)
	p.SetBool(prefs.KeyWatchDatabase, true)

	require.NoError(t, mw.state.OpenDatabase(context.Background(), querytest.Seed(t)))
	require.NotNil(t, watcherOf(mw))

	mw.Window.Close()
	assert.Nil(t, watcherOf(mw))
}

func TestChooseBackgroundRejectsUnsupportedFormat(t *testing.T) {
	mw, _ := newTestWindow(t)
	err := mw.ChooseBackground(filepath.Join(t.TempDir(), "map.bmp"))
	assert.ErrorContains(t, err, "unsupported image format")
	assert.Equal(t, config.Default().Map.Background, mw.state.Background())
}

func TestChooseBackgroundRemembersPath(t *testing.T) {
	mw, p := newTestWindow(t)
	path := filepath.Join(t.TempDir(), "world.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 4))))
	require.NoError(t, f.Close())

	require.NoError(t, mw.ChooseBackground(path))
	assert.Equal(t, path, mw.state.Background())
	assert.Equal(t, path, p.String(prefs.KeyLastBackground))
}
