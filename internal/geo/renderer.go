// Package geo turns per-country sales aggregates into the glyphs of the
// bubble map.
package geo

import (
	"image/color"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/colorutil"
	"sales-analytics/pkg/geometry"
)

// BackgroundZ is the z order of the world map pixmap.
const BackgroundZ = -1

// AggregateRow is one (country, category, measure) tuple from a query.
type AggregateRow struct {
	GroupKey string
	SubKey   string
	Measure  float64
}

// Glyph is the visual marker for one country.
type Glyph struct {
	Position       geometry.Point2D // geometric center, on the location table coordinate
	Radius         float64
	ColorIntensity uint8
	Label          string
	TotalMeasure   float64
}

// Bounds returns the circle's bounding box: offset by -Radius/2 from the
// center with Radius as width and height.
func (g Glyph) Bounds() geometry.Rect {
	half := g.Radius / 2
	return geometry.NewRect(g.Position.X-half, g.Position.Y-half, g.Radius, g.Radius)
}

// LabelAnchor returns the bottom-right corner of the circle.
func (g Glyph) LabelAnchor() geometry.Point2D {
	half := g.Radius / 2
	return g.Position.Add(geometry.NewPoint2D(half, half))
}

// Color returns the glyph fill: hue 0, full saturation, value = intensity.
func (g Glyph) Color() color.RGBA {
	return colorutil.Intensity(g.ColorIntensity)
}

// Options tune glyph sizing and coloring.
type Options struct {
	// IntensityCeiling is the total that maps to intensity 255. With the
	// default of 255 totals are clamped into the channel unscaled.
	IntensityCeiling float64
	// RadiusFactor multiplies sqrt(total).
	RadiusFactor float64
}

// DefaultOptions returns radius 2*sqrt(total) and intensity clamped at 255.
func DefaultOptions() Options {
	return Options{IntensityCeiling: 255, RadiusFactor: 2}
}

// Result is the output of one Render call.
type Result struct {
	Glyphs     []Glyph
	Unresolved []string
}

// Renderer aggregates rows into glyphs against a fixed location table.
type Renderer struct {
	locations *LocationTable
	opts      Options
	log       zerolog.Logger
}

// NewRenderer creates a renderer. Unresolved countries are reported as
// warnings on log.
func NewRenderer(locations *LocationTable, opts Options, log zerolog.Logger) *Renderer {
	if opts.IntensityCeiling <= 0 {
		opts.IntensityCeiling = DefaultOptions().IntensityCeiling
	}
	if opts.RadiusFactor <= 0 {
		opts.RadiusFactor = DefaultOptions().RadiusFactor
	}
	return &Renderer{locations: locations, opts: opts, log: log}
}

// Render groups rows by country, sums their measures and builds one glyph
// per country with a known location. Glyphs are ordered by country name.
func (r *Renderer) Render(rows []AggregateRow) Result {
	groups := make(map[string][]float64)
	var keys []string
	for _, row := range rows {
		if _, seen := groups[row.GroupKey]; !seen {
			keys = append(keys, row.GroupKey)
		}
		groups[row.GroupKey] = append(groups[row.GroupKey], row.Measure)
	}
	sort.Strings(keys)

	var res Result
	for _, key := range keys {
		pos, ok := r.locations.Lookup(key)
		if !ok {
			r.log.Warn().Str("country", key).Msg("missing coordinates for country")
			res.Unresolved = append(res.Unresolved, key)
			continue
		}

		total := floats.Sum(groups[key])
		res.Glyphs = append(res.Glyphs, Glyph{
			Position:       pos,
			Radius:         r.Radius(total),
			ColorIntensity: r.Intensity(total),
			Label:          key,
			TotalMeasure:   total,
		})
	}
	return res
}

// Radius returns RadiusFactor*sqrt(total); negative totals give 0.
func (r *Renderer) Radius(total float64) float64 {
	if !(total > 0) {
		return 0
	}
	return r.opts.RadiusFactor * math.Sqrt(total)
}

// Intensity maps total into 0..255, saturating at IntensityCeiling.
func (r *Renderer) Intensity(total float64) uint8 {
	if !(total > 0) {
		return 0
	}
	if total >= r.opts.IntensityCeiling {
		return 255
	}
	return uint8(total * 255 / r.opts.IntensityCeiling)
}

// Scene converts the result to a draw list: the background pixmap (when
// set), then a circle and a label per glyph.
func (res Result) Scene(size geometry.Size, background string) *scene.Scene {
	s := scene.New(size)
	if background != "" {
		s.AddImage(background, BackgroundZ)
	}
	for _, g := range res.Glyphs {
		s.AddCircle(g.Bounds(), g.Color())
		s.AddText(g.Label, g.LabelAnchor())
	}
	return s
}
