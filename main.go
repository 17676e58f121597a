// Package main provides the entry point for the Sales Analytics dashboard.
package main

import (
	"context"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	_ "golang.org/x/image/tiff"

	"sales-analytics/internal/app"
	"sales-analytics/internal/config"
	"sales-analytics/internal/logging"
	"sales-analytics/internal/version"
	"sales-analytics/ui/mainwindow"
	"sales-analytics/ui/prefs"
)

const appID = "io.github.sales-analytics"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.Fatal().Err(err).Msg("loading configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Logger()
	log.Info().Str("version", version.String()).Msg("starting Sales Analytics")

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.DashboardTheme{})

	state := app.NewState(cfg, nil, log)
	defer state.Close()
	appPrefs := prefs.Load()

	win := mainwindow.New(a, state, appPrefs, log)

	// An explicit database argument wins over the last session.
	if len(os.Args) > 1 {
		path := os.Args[1]
		appPrefs.SetString(prefs.KeyLastDatabase, path)
		if err := state.OpenDatabase(context.Background(), path); err != nil {
			log.Error().Err(err).Str("path", path).Msg("opening database")
		}
	} else if appPrefs.String(prefs.KeyLastDatabase) == "" && cfg.Database.Path != "" {
		if _, err := os.Stat(cfg.Database.Path); err == nil {
			if err := state.OpenDatabase(context.Background(), cfg.Database.Path); err != nil {
				log.Error().Err(err).Str("path", cfg.Database.Path).Msg("opening database")
			}
		}
	}
	win.RestoreSession()

	win.ShowAndRun()
}
