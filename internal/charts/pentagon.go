package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/colorutil"
	"sales-analytics/pkg/geometry"
)

// Radar chart layout.
const (
	PentagonAxes   = 5
	PentagonRadius = 300.0
)

var (
	pentagonCenter   = geometry.NewPoint2D(300, 300)
	vertexLabelShift = geometry.NewPoint2D(-40, -40)
	averageShift     = geometry.NewPoint2D(-30, -30)
)

// Pentagon is the radar chart geometry for the top five rows.
type Pentagon struct {
	Max     []geometry.Point2D
	Average []geometry.Point2D
	Mean    float64
	Labels  []string
}

// NewPentagon computes the radar geometry. Rows are expected best first;
// only the first five are used. Each axis of the outer polygon is scaled by
// its value relative to the first row, the inner polygon by the mean of all
// used rows. Axes without a row stay at the center. It returns false when
// there is nothing to draw: no rows or a top value of zero.
func NewPentagon(rows []LabeledValue) (Pentagon, bool) {
	if len(rows) > PentagonAxes {
		rows = rows[:PentagonAxes]
	}
	if len(rows) == 0 || rows[0].Value == 0 {
		return Pentagon{}, false
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Value
	}
	top := rows[0].Value
	mean := stat.Mean(values, nil)

	unit := geometry.RegularPolygon(geometry.Point2D{}, 1, PentagonAxes, -math.Pi/2)
	p := Pentagon{
		Max:     make([]geometry.Point2D, PentagonAxes),
		Average: make([]geometry.Point2D, PentagonAxes),
		Mean:    mean,
	}
	for i, u := range unit {
		factor := 0.0
		if i < len(values) {
			factor = values[i] / top
			p.Labels = append(p.Labels, rows[i].Label+"\n"+FormatNumber(rows[i].Value))
		}
		p.Max[i] = pentagonCenter.Add(u.Scale(PentagonRadius * factor))
		p.Average[i] = pentagonCenter.Add(u.Scale(PentagonRadius * mean / top))
	}
	return p, true
}

// Scene lays the radar chart out as a draw list.
func (p Pentagon) Scene() *scene.Scene {
	s := scene.New(geometry.NewSize(2*pentagonCenter.X, 2*pentagonCenter.Y))
	if len(p.Max) == 0 {
		return s
	}
	s.AddPolygon(p.Max, colorutil.Black, colorutil.CyanOpaque)
	s.AddPolygon(p.Average, colorutil.Blue, colorutil.CyanFaint)
	for i, label := range p.Labels {
		s.AddText(label, p.Max[i].Add(vertexLabelShift))
	}
	s.AddText(fmt.Sprintf("Average: %.2f", p.Mean), p.Average[0].Add(averageShift))
	return s
}

// PentagonScene is NewPentagon followed by Scene; empty input yields an
// empty scene.
func PentagonScene(rows []LabeledValue) *scene.Scene {
	p, _ := NewPentagon(rows)
	return p.Scene()
}
