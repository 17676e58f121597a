package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/pkg/colorutil"
	"sales-analytics/pkg/geometry"
)

func TestReplayOrdersByZ(t *testing.T) {
	s := New(geometry.NewSize(100, 50))
	s.AddCircle(geometry.NewRect(1, 2, 4, 4), colorutil.Intensity(80))
	s.AddText("USA", geometry.NewPoint2D(3, 4))
	s.AddImage("world_map.png", -1)

	rec := &Recorder{}
	tr := geometry.Scale(2, 2)
	s.Replay(rec, tr)

	require.Len(t, rec.Calls, 3)
	assert.Equal(t, "image world_map.png z=-1", rec.Calls[0])
	assert.Equal(t, "circle 1.00,2.00 4.00x4.00 rgb(80,0,0)", rec.Calls[1])
	assert.Equal(t, `text "USA" 3.00,4.00`, rec.Calls[2])
	assert.Equal(t, tr, rec.Transform)
}

func TestAddPolygonCopiesPoints(t *testing.T) {
	pts := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	s := New(geometry.NewSize(10, 10))
	s.AddPolygon(pts, colorutil.Black, colorutil.CyanFaint)
	pts[0].X = 99

	cmds := s.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, 0.0, cmds[0].Points[0].X)
	assert.Equal(t, 1, s.Len())
}
