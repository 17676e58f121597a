// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"image/png"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"sales-analytics/internal/app"
	mapimage "sales-analytics/internal/image"
	"sales-analytics/internal/version"
	"sales-analytics/internal/viewport"
	"sales-analytics/ui/canvas"
	"sales-analytics/ui/prefs"
)

const (
	appTitle       = "Sales Analytics"
	prefKeyLastDir = "lastDirectory"
	watchInterval  = 2 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs
	log   zerolog.Logger

	buttons   map[app.Report]*widget.Button
	table     *tableView
	chart     *chartView
	canvas    *canvas.SceneCanvas
	images    *mapimage.Cache
	tabs      *container.AppTabs
	status    binding.String
	statusBar *widget.Label

	watcherMu  sync.Mutex
	watcher    *app.FileWatcher
	watchEvery time.Duration
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, log zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   p,
		log:     log,
		buttons:    make(map[app.Report]*widget.Button),
		images:     mapimage.NewCache(log),
		watchEvery: watchInterval,
	}
	win.SetOnClosed(mw.stopWatching)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	cfg := mw.state.Config()

	mw.table = newTableView()
	mw.chart = newChartView(fyne.NewSize(float32(cfg.Charts.Width)/2, float32(cfg.Charts.Height)/2))

	limits := viewport.Limits{
		ZoomStep: cfg.Viewport.ZoomStep,
		MinScale: cfg.Viewport.MinScale,
		MaxScale: cfg.Viewport.MaxScale,
	}
	mw.canvas = canvas.NewSceneCanvas(limits, mw.images)
	mw.canvas.OnTransformChange(func(t viewport.ViewTransform) {
		mw.updateStatus(fmt.Sprintf("Zoom %.2fx  pan %.0f,%.0f", t.Scale, t.Pan.X, t.Pan.Y))
	})

	mw.status = binding.NewString()
	_ = mw.status.Set("Ready")
	mw.statusBar = widget.NewLabelWithData(mw.status)

	// Report buttons, one per report
	buttonBox := container.NewVBox()
	for _, r := range app.Reports {
		r := r
		btn := widget.NewButton(r.String(), func() { mw.runReport(r) })
		mw.buttons[r] = btn
		buttonBox.Add(btn)
	}

	mw.tabs = container.NewAppTabs(
		container.NewTabItem("Chart", mw.chart.raster),
		container.NewTabItem("Graphics", mw.canvas),
	)

	views := container.NewVSplit(mw.table.table, mw.tabs)
	views.SetOffset(0.35)

	split := container.NewHSplit(container.NewPadded(buttonBox), views)
	split.SetOffset(0.18)

	// Main container with status bar at bottom
	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 860))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Workspace...", mw.onOpenWorkspace),
		fyne.NewMenuItem("Save Workspace...", mw.onSaveWorkspace),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Database...", mw.onOpenDatabase),
		fyne.NewMenuItem("Choose Background Map...", mw.onChooseBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export View as PNG...", mw.onExportView),
	)

	reportItems := make([]*fyne.MenuItem, 0, len(app.Reports))
	for _, r := range app.Reports {
		r := r
		reportItems = append(reportItems, fyne.NewMenuItem(r.String(), func() { mw.runReport(r) }))
	}
	reportsMenu := fyne.NewMenu("Reports", reportItems...)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItem("Refresh", mw.onRefresh),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, reportsMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDatabaseOpened, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Database opened: " + path)
			mw.prefs.SetString(prefs.KeyLastDatabase, path)
			mw.savePrefs()
			mw.watchDatabase(path)
		}
	})

	mw.state.On(app.EventTableChanged, func(data interface{}) {
		if ev, ok := data.(app.TableEvent); ok {
			mw.table.SetTableModel(ev.Model.Headers, ev.Model.Rows)
			mw.updateStatus(fmt.Sprintf("%s: %d rows", ev.Report, len(ev.Model.Rows)))
		}
	})

	mw.state.On(app.EventChartChanged, func(data interface{}) {
		if ev, ok := data.(app.ChartEvent); ok {
			mw.chart.SetImage(ev.Image)
		}
	})

	mw.state.On(app.EventSceneChanged, func(data interface{}) {
		if ev, ok := data.(app.SceneEvent); ok {
			mw.canvas.SetScene(ev.Scene)
			if len(ev.Unresolved) > 0 {
				mw.updateStatus(fmt.Sprintf("No map position for: %v", ev.Unresolved))
			}
		}
	})

	mw.state.On(app.EventReportFailed, func(data interface{}) {
		if ev, ok := data.(app.FailureEvent); ok {
			dialog.ShowError(fmt.Errorf("%s: %w", ev.Report, ev.Err), mw.Window)
		}
	})
}

// RestoreSession reopens the last database and background map.
func (mw *MainWindow) RestoreSession() {
	mw.state.SetBackground(mw.prefs.StringWithFallback(prefs.KeyLastBackground, mw.state.Background()))
	path := mw.prefs.String(prefs.KeyLastDatabase)
	if path == "" || path == mw.state.DatabasePath() {
		return
	}
	if err := mw.state.OpenDatabase(context.Background(), path); err != nil {
		mw.log.Warn().Err(err).Str("path", path).Msg("could not reopen last database")
	}
}

// Close closes the window. Background work stops in the OnClosed hook, which
// also runs when the user closes the window.
func (mw *MainWindow) Close() {
	mw.Window.Close()
}

// stopWatching stops the database watcher, if any.
func (mw *MainWindow) stopWatching() {
	mw.watcherMu.Lock()
	w := mw.watcher
	mw.watcher = nil
	mw.watcherMu.Unlock()
	if w != nil {
		w.Stop()
	}
}

func (mw *MainWindow) runReport(r app.Report) {
	if err := mw.state.Run(context.Background(), r); err != nil {
		mw.log.Debug().Err(err).Str("report", r.String()).Msg("report not run")
		return
	}
	// Only user-started runs switch tabs; watcher refreshes stay put.
	if r == app.ReportMap || r == app.ReportTopArtists {
		mw.tabs.SelectIndex(1)
	} else {
		mw.tabs.SelectIndex(0)
	}
}

// watchDatabase refreshes the current report when the database file changes.
func (mw *MainWindow) watchDatabase(path string) {
	mw.stopWatching()
	if !mw.prefs.Bool(prefs.KeyWatchDatabase, true) {
		return
	}
	w := app.NewFileWatcher(path, mw.watchEvery)
	if w == nil {
		return
	}
	w.OnChange(func() {
		mw.log.Info().Str("path", path).Msg("database changed, refreshing")
		mw.onRefresh()
	})
	w.Start(context.Background())

	mw.watcherMu.Lock()
	mw.watcher = w
	mw.watcherMu.Unlock()
}

// updateStatus updates the status bar text. Safe from any goroutine.
func (mw *MainWindow) updateStatus(text string) {
	_ = mw.status.Set(text)
}

func (mw *MainWindow) savePrefs() {
	if err := mw.prefs.Save(); err != nil {
		mw.log.Warn().Err(err).Str("path", mw.prefs.Path()).Msg("saving preferences failed")
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenDatabase() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.OpenDatabase(context.Background(), path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".db", ".sqlite", ".sqlite3", ".duckdb"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// ChooseBackground makes the image at path the map background and redraws
// the map if it is showing.
func (mw *MainWindow) ChooseBackground(path string) error {
	if !mapimage.IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %q", filepath.Ext(path))
	}
	bg, err := mapimage.Load(path)
	if err != nil {
		return err
	}
	mw.log.Info().Str("path", path).Int("width", bg.Width()).Int("height", bg.Height()).Msg("background map chosen")

	mw.images.Forget(path)
	mw.state.SetBackground(path)
	mw.prefs.SetString(prefs.KeyLastBackground, path)
	mw.savePrefs()

	if cur, ok := mw.state.Current(); ok && cur == app.ReportMap {
		mw.runReport(app.ReportMap)
	}
	return nil
}

func (mw *MainWindow) onChooseBackground() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		if err := mw.ChooseBackground(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(mapimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportView() {
	img := mw.canvas.GetRenderedOutput()
	if img == nil {
		mw.updateStatus("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := png.Encode(writer, img); err != nil {
			dialog.ShowError(fmt.Errorf("export view: %w", err), mw.Window)
			return
		}
		mw.updateStatus("Exported " + writer.URI().Path())
	}, mw.Window)
	fd.SetFileName("view.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onResetView() {
	mw.canvas.ResetView()
}

func (mw *MainWindow) onRefresh() {
	if err := mw.state.Rerun(context.Background()); err != nil {
		mw.log.Warn().Err(err).Msg("refresh failed")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Music store sales dashboard: monthly sales, genre revenue,\n"+
			"top artists and a country sales map.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
