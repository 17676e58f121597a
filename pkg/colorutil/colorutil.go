// Package colorutil provides shared color utilities for the dashboard renderers.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used by the map and chart scenes.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}

	// CyanOpaque and CyanFaint are the radar chart fills.
	CyanOpaque = color.RGBA{R: 0, G: 255, B: 255, A: 200}
	CyanFaint  = color.RGBA{R: 0, G: 255, B: 255, A: 50}
)

// HSVToRGB converts a hue in degrees (0-360) and saturation/value in 0-255
// to an opaque RGBA color.
func HSVToRGB(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp(s, 0, 255) / 255.0
	v = clamp(v, 0, 255) / 255.0

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// Intensity returns the fully saturated red whose brightness is v (0-255).
// Glyphs on the sales map are colored this way.
func Intensity(v uint8) color.RGBA {
	return HSVToRGB(0, 255, float64(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
