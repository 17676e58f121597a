// Package config loads the dashboard configuration from defaults, an optional
// YAML file and SALES_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"sales-analytics/pkg/geometry"
)

// Config is the complete application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Map      MapConfig      `koanf:"map"`
	Viewport ViewportConfig `koanf:"viewport"`
	Charts   ChartsConfig   `koanf:"charts"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig selects the sales database and the driver used to read it.
type DatabaseConfig struct {
	Driver       string        `koanf:"driver" validate:"required,oneof=sqlite duckdb"`
	Path         string        `koanf:"path" validate:"required"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`
}

// MapConfig describes the geographic bubble map.
type MapConfig struct {
	Background string `koanf:"background"`
	Width      int    `koanf:"width" validate:"gt=0"`
	Height     int    `koanf:"height" validate:"gt=0"`

	// IntensityCeiling is the total measure that maps to full color
	// intensity. Totals above it saturate.
	IntensityCeiling float64 `koanf:"intensity_ceiling" validate:"gt=0"`
	RadiusFactor     float64 `koanf:"radius_factor" validate:"gt=0"`

	// Locations adds to or overrides the built-in country coordinates.
	Locations map[string]geometry.Point2D `koanf:"locations"`
}

// ViewportConfig bounds the pan/zoom controller.
type ViewportConfig struct {
	ZoomStep float64 `koanf:"zoom_step" validate:"gt=1"`
	MinScale float64 `koanf:"min_scale" validate:"gt=0"`
	MaxScale float64 `koanf:"max_scale" validate:"gtfield=MinScale"`
}

// ChartsConfig sizes chart images and ranking cut-offs.
type ChartsConfig struct {
	Width      int `koanf:"width" validate:"gt=0"`
	Height     int `koanf:"height" validate:"gt=0"`
	TopGenres  int `koanf:"top_genres" validate:"gt=0"`
	TopArtists int `koanf:"top_artists" validate:"gt=0"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=console json"`
	Caller bool   `koanf:"caller"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Path:         "chinook.db",
			QueryTimeout: 10 * time.Second,
		},
		Map: MapConfig{
			Background:       "world_map.png",
			Width:            1000,
			Height:           500,
			IntensityCeiling: 255,
			RadiusFactor:     2,
		},
		Viewport: ViewportConfig{
			ZoomStep: 1.1,
			MinScale: 1.0,
			MaxScale: 5.0,
		},
		Charts: ChartsConfig{
			Width:      800,
			Height:     480,
			TopGenres:  10,
			TopArtists: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
