package mainwindow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"sales-analytics/internal/app"
	"sales-analytics/internal/project"
	"sales-analytics/ui/prefs"
)

// SaveWorkspace writes the open database, background and last report to
// path. An existing file keeps its creation time.
func (mw *MainWindow) SaveWorkspace(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := project.Load(path)
	if err != nil {
		f = project.New(name)
	}
	f.Name = name

	f.SetDatabase(path, mw.state.DatabasePath())
	f.SetBackground(path, mw.state.Background())
	f.Report = ""
	if r, ok := mw.state.Current(); ok {
		f.Report = r.String()
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	mw.log.Info().Str("path", path).Str("report", f.Report).Msg("workspace saved")
	return nil
}

// OpenWorkspace restores a saved workspace and reruns its report.
func (mw *MainWindow) OpenWorkspace(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}

	if bg := f.Background(path); bg != "" {
		mw.images.Forget(bg)
		mw.state.SetBackground(bg)
		mw.prefs.SetString(prefs.KeyLastBackground, bg)
	}
	if db := f.Database(path); db != "" && db != mw.state.DatabasePath() {
		if err := mw.state.OpenDatabase(context.Background(), db); err != nil {
			return err
		}
	}
	mw.savePrefs()

	r, ok := app.ParseReport(f.Report)
	if !ok {
		return nil
	}
	mw.runReport(r)
	mw.log.Info().Str("path", path).Str("report", f.Report).Msg("workspace opened")
	return nil
}

func (mw *MainWindow) onOpenWorkspace() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.OpenWorkspace(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveWorkspace() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		chosen := writer.URI().Path()
		writer.Close()
		path := workspacePath(chosen)
		mw.saveLastDir(path)
		if err := mw.SaveWorkspace(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Workspace saved: " + path)
	}, mw.Window)
	fd.SetFileName("workspace" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// workspacePath appends the workspace extension when chosen lacks it. The
// save dialog has already created chosen, so an empty file left under the
// bare name is removed.
func workspacePath(chosen string) string {
	if strings.HasSuffix(chosen, project.Extension) {
		return chosen
	}
	if fi, err := os.Stat(chosen); err == nil && fi.Mode().IsRegular() && fi.Size() == 0 {
		_ = os.Remove(chosen)
	}
	return chosen + project.Extension
}
