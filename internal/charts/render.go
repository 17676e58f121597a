package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("charts: no data to plot")

// Chart titles.
const (
	TitleMonthly      = "Monthly Sales by Year"
	TitleGenreRevenue = "Revenue by Genre (Top 10 + Other)"
	TitleTopArtists   = "Top 3 Artists by Genre"
	TitleTop5Revenue  = "Top 5 Artists by Revenue"
)

// Renderer draws shaped data into raster images.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer producing width x height images.
func NewRenderer(width, height int) Renderer {
	return Renderer{Width: width, Height: height}
}

// MonthlyByYear plots one line per year over months 1..12.
func (r Renderer) MonthlyByYear(series []Series) (image.Image, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	months := make([]float64, MonthsPerYear)
	ticks := make([]chart.Tick, MonthsPerYear)
	for i := range months {
		months[i] = float64(i + 1)
		ticks[i] = chart.Tick{Value: months[i], Label: fmt.Sprint(i + 1)}
	}

	var plotted []chart.Series
	for _, s := range series {
		plotted = append(plotted, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: months,
			YValues: s.Values,
		})
	}

	ch := chart.Chart{
		Title:      TitleMonthly,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Month", Ticks: ticks},
		YAxis:      chart.YAxis{Name: "Total Sales"},
		Series:     plotted,
	}
	ch.Elements = []chart.Renderable{chart.LegendThin(&ch)}
	return render(ch)
}

// Pie plots labelled slices. Slices with no positive value are skipped.
func (r Renderer) Pie(title string, slices []Slice) (image.Image, error) {
	var values []chart.Value
	for _, s := range slices {
		if s.Value > 0 {
			values = append(values, chart.Value{Label: s.Label, Value: s.Value})
		}
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	return render(chart.PieChart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	})
}

// StackedBars plots one bar per category with a segment per rank.
func (r Renderer) StackedBars(title string, st Stacked) (image.Image, error) {
	var total float64
	bars := make([]chart.StackedBar, len(st.Categories))
	for ci, category := range st.Categories {
		bar := chart.StackedBar{Name: category}
		for _, set := range st.Sets {
			bar.Values = append(bar.Values, chart.Value{Label: set.Items[ci], Value: set.Values[ci]})
			total += set.Values[ci]
		}
		bars[ci] = bar
	}
	if total <= 0 {
		return nil, ErrNoData
	}

	return render(chart.StackedBarChart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		XAxis:  chart.Style{TextRotationDegrees: 90},
		Bars:   bars,
	})
}

type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(c pngRenderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}
