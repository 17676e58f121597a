// Command mapexport renders the country sales map to an image file without
// opening a window.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sales-analytics/internal/app"
	"sales-analytics/internal/config"
	"sales-analytics/internal/export"
	"sales-analytics/internal/logging"
	"sales-analytics/internal/project"
	"sales-analytics/internal/query"
	"sales-analytics/internal/version"
	"sales-analytics/internal/viewport"
	"sales-analytics/pkg/geometry"
)

type options struct {
	configPath string
	workspace  string
	database   string
	background string
	out        string
	scale      float64
	panX       float64
	panY       float64
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mapexport:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mapexport",
		Short:         "Render the country sales map to a PNG",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: $SALES_CONFIG or ./config.yaml)")
	f.StringVarP(&opts.workspace, "workspace", "w", "", "workspace file supplying database and background")
	f.StringVar(&opts.database, "database", "", "sales database, overrides database.path")
	f.StringVar(&opts.background, "background", "", "background map image, overrides map.background")
	f.StringVarP(&opts.out, "out", "o", "map.png", "output image")
	f.Float64Var(&opts.scale, "scale", 1, "zoom factor, clamped to the viewport limits")
	f.Float64Var(&opts.panX, "pan-x", 0, "horizontal pan in map units")
	f.Float64Var(&opts.panY, "pan-y", 0, "vertical pan in map units")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workspace != "" {
		if err := applyWorkspace(cfg, opts); err != nil {
			return err
		}
	}
	if opts.database != "" {
		cfg.Database.Path = opts.database
	}
	if opts.background != "" {
		cfg.Map.Background = opts.background
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Component("mapexport")

	engine, err := query.Open(ctx, cfg.Database.Driver, cfg.Database.Path, logging.Component("query"))
	if err != nil {
		return err
	}

	state := app.NewState(cfg, engine, logging.Logger())
	defer state.Close()

	sc, res := state.MapScene(ctx)
	if len(res.Unresolved) > 0 {
		log.Warn().Strs("countries", res.Unresolved).Msg("countries without map position")
	}

	ctrl := viewport.NewController(viewport.Limits{
		ZoomStep: cfg.Viewport.ZoomStep,
		MinScale: cfg.Viewport.MinScale,
		MaxScale: cfg.Viewport.MaxScale,
	})
	ctrl.SetTransform(viewport.ViewTransform{
		Scale: opts.scale,
		Pan:   geometry.NewPoint2D(opts.panX, opts.panY),
	})
	view := ctrl.CurrentTransform()
	log.Debug().Float64("scale", view.Scale).Float64("pan_x", view.Pan.X).Float64("pan_y", view.Pan.Y).Msg("view")

	if err := export.WriteScene(opts.out, sc, view.Affine(), cfg.Map.Width, cfg.Map.Height, log); err != nil {
		return err
	}
	fmt.Printf("Wrote %s: %d countries, %d unresolved\n", opts.out, len(res.Glyphs), len(res.Unresolved))
	return nil
}

// applyWorkspace takes the database and background from a workspace file.
// The --database and --background flags are applied afterwards and win.
func applyWorkspace(cfg *config.Config, opts *options) error {
	ws, err := project.Load(opts.workspace)
	if err != nil {
		return err
	}
	if db := ws.Database(opts.workspace); db != "" {
		cfg.Database.Path = db
	}
	if bg := ws.Background(opts.workspace); bg != "" {
		cfg.Map.Background = bg
	}
	return nil
}
