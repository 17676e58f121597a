package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/geometry"
)

func TestMonthlyByYear(t *testing.T) {
	series := MonthlyByYear([]YearMonthValue{
		{Year: "2010", Month: 1, Value: 10},
		{Year: "2009", Month: 1, Value: 58},
		{Year: "2009", Month: 2, Value: 20},
		{Year: "2010", Month: 13, Value: 99},
		{Year: "2010", Month: 0, Value: 99},
	})

	require.Len(t, series, 2)
	assert.Equal(t, "2009", series[0].Name)
	assert.Equal(t, "2010", series[1].Name)
	for _, s := range series {
		assert.Len(t, s.Values, MonthsPerYear)
	}
	assert.Equal(t, []float64{58, 20, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, series[0].Values)
	assert.Equal(t, 10.0, series[1].Values[0])
	assert.Equal(t, 0.0, series[1].Values[11])
}

func TestTopNWithOther(t *testing.T) {
	rows := []LabeledValue{
		{"Rock", 826.65}, {"Latin", 382.14}, {"Metal", 261.36},
		{"Jazz", 79.2}, {"Blues", 60.39},
	}

	slices := TopNWithOther(rows, 3)
	require.Len(t, slices, 4)
	assert.Equal(t, "Rock: 826.65", slices[0].Label)
	assert.Equal(t, "Metal: 261.36", slices[2].Label)
	assert.InDelta(t, 139.59, slices[3].Value, 1e-9)
	assert.Contains(t, slices[3].Label, "Other: ")

	all := TopNWithOther(rows, DefaultTopN)
	assert.Len(t, all, len(rows))

	zeros := TopNWithOther([]LabeledValue{{"A", 1}, {"B", 0}}, 1)
	assert.Len(t, zeros, 1)
}

func TestPie(t *testing.T) {
	slices := Pie([]LabeledValue{{"AC/DC", 29.7}, {"Queen", 14.85}})
	assert.Equal(t, []Slice{{"AC/DC: 29.7", 29.7}, {"Queen: 14.85", 14.85}}, slices)
	assert.Empty(t, Pie(nil))
}

func TestTopKByCategory(t *testing.T) {
	st := TopKByCategory([]CategoryItem{
		{"Rock", "AC/DC", 30}, {"Rock", "Queen", 15}, {"Rock", "The Beatles", 4}, {"Rock", "Led Zeppelin", 1},
		{"Jazz", "Miles Davis", 28},
	}, DefaultTopK)

	assert.Equal(t, []string{"Jazz", "Rock"}, st.Categories)
	require.Len(t, st.Sets, 3)
	assert.Equal(t, "Top 1", st.Sets[0].Name)
	assert.Equal(t, []string{"Miles Davis", "AC/DC"}, st.Sets[0].Items)
	assert.Equal(t, []float64{28, 30}, st.Sets[0].Values)
	assert.Equal(t, []string{MissingItem, "The Beatles"}, st.Sets[2].Items)
	assert.Equal(t, []float64{0, 4}, st.Sets[2].Values)
}

func TestPentagonGeometry(t *testing.T) {
	rows := []LabeledValue{{"A", 100}, {"B", 80}, {"C", 60}, {"D", 40}, {"E", 20}, {"F", 10}}
	p, ok := NewPentagon(rows)
	require.True(t, ok)

	assert.InDelta(t, 60.0, p.Mean, 1e-9)
	require.Len(t, p.Max, 5)
	require.Len(t, p.Labels, 5)

	// First axis points straight up at full radius.
	assert.InDelta(t, 300, p.Max[0].X, 1e-9)
	assert.InDelta(t, 0, p.Max[0].Y, 1e-9)
	assert.InDelta(t, 300-0.6*PentagonRadius, p.Average[0].Y, 1e-9)

	center := geometry.NewPoint2D(300, 300)
	for i, v := range []float64{100, 80, 60, 40, 20} {
		assert.InDelta(t, PentagonRadius*v/100, dist(p.Max[i], center), 1e-9)
		assert.InDelta(t, PentagonRadius*0.6, dist(p.Average[i], center), 1e-9)
	}
	assert.Equal(t, "A\n100", p.Labels[0])
}

func dist(a, b geometry.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestPentagonShortInput(t *testing.T) {
	p, ok := NewPentagon([]LabeledValue{{"A", 50}, {"B", 25}})
	require.True(t, ok)
	assert.Len(t, p.Labels, 2)
	center := geometry.NewPoint2D(300, 300)
	for _, v := range p.Max[2:] {
		assert.InDelta(t, 0, dist(v, center), 1e-9)
	}
	for _, v := range append(p.Max, p.Average...) {
		assert.False(t, math.IsNaN(v.X) || math.IsNaN(v.Y))
	}
}

func TestPentagonDegenerate(t *testing.T) {
	_, ok := NewPentagon(nil)
	assert.False(t, ok)
	_, ok = NewPentagon([]LabeledValue{{"A", 0}, {"B", 0}})
	assert.False(t, ok)

	assert.Equal(t, 0, PentagonScene(nil).Len())
}

func TestPentagonScene(t *testing.T) {
	s := PentagonScene([]LabeledValue{{"A", 100}, {"B", 50}, {"C", 50}, {"D", 50}, {"E", 50}})
	rec := &scene.Recorder{}
	s.Replay(rec, geometry.Identity())

	require.Len(t, rec.Calls, 8)
	assert.Equal(t, "polygon 5", rec.Calls[0])
	assert.Equal(t, "polygon 5", rec.Calls[1])
	assert.Equal(t, `text "A\n100" 260.00,-40.00`, rec.Calls[2])
	assert.Equal(t, `text "Average: 60.00" 270.00,90.00`, rec.Calls[7])
	assert.Equal(t, geometry.NewSize(600, 600), s.Size)
}

func TestRendererProducesImages(t *testing.T) {
	r := NewRenderer(400, 300)

	img, err := r.Pie(TitleTop5Revenue, Pie([]LabeledValue{{"AC/DC", 29.7}, {"Queen", 14.85}}))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	img, err = r.MonthlyByYear(MonthlyByYear([]YearMonthValue{{"2009", 1, 5}, {"2009", 2, 7}}))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())

	img, err = r.StackedBars(TitleTopArtists, TopKByCategory([]CategoryItem{{"Rock", "AC/DC", 30}}, 3))
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestRendererNoData(t *testing.T) {
	r := NewRenderer(400, 300)
	_, err := r.Pie("empty", nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.MonthlyByYear(nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.StackedBars("empty", Stacked{})
	assert.ErrorIs(t, err, ErrNoData)
}
