package geo

import (
	"sort"

	"sales-analytics/pkg/geometry"
)

// defaultLocations are surface coordinates on the 1000x500 world map.
var defaultLocations = map[string]geometry.Point2D{
	"Belgium":      {X: 500, Y: 110},
	"Chile":        {X: 290, Y: 360},
	"Denmark":      {X: 505, Y: 92},
	"Italy":        {X: 516, Y: 144},
	"Norway":       {X: 507, Y: 73},
	"Sweden":       {X: 522, Y: 73},
	"Spain":        {X: 472, Y: 148},
	"USA":          {X: 200, Y: 150},
	"Canada":       {X: 200, Y: 80},
	"Mexico":       {X: 215, Y: 205},
	"Brazil":       {X: 350, Y: 300},
	"Argentina":    {X: 300, Y: 350},
	"UK":           {X: 480, Y: 100},
	"Germany":      {X: 510, Y: 110},
	"China":        {X: 750, Y: 170},
	"India":        {X: 690, Y: 200},
	"Australia":    {X: 840, Y: 320},
	"South Africa": {X: 543, Y: 343},
	"Japan":        {X: 850, Y: 158},
	"Egypt":        {X: 559, Y: 188},
	"France":       {X: 488, Y: 131},
}

// LocationTable maps country names to surface coordinates. It is built once
// and never modified; the zero value is an empty table.
type LocationTable struct {
	points map[string]geometry.Point2D
}

// NewLocationTable copies entries into a new table.
func NewLocationTable(entries map[string]geometry.Point2D) *LocationTable {
	points := make(map[string]geometry.Point2D, len(entries))
	for name, p := range entries {
		points[name] = p
	}
	return &LocationTable{points: points}
}

// DefaultLocations returns the built-in table merged with overrides.
// Overrides win on name collisions.
func DefaultLocations(overrides map[string]geometry.Point2D) *LocationTable {
	merged := make(map[string]geometry.Point2D, len(defaultLocations)+len(overrides))
	for name, p := range defaultLocations {
		merged[name] = p
	}
	for name, p := range overrides {
		merged[name] = p
	}
	return &LocationTable{points: merged}
}

// Lookup returns the coordinate for a country.
func (t *LocationTable) Lookup(name string) (geometry.Point2D, bool) {
	if t == nil {
		return geometry.Point2D{}, false
	}
	p, ok := t.points[name]
	return p, ok
}

// Len returns the number of known countries.
func (t *LocationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.points)
}

// Names returns the known country names in sorted order.
func (t *LocationTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.points))
	for name := range t.points {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
