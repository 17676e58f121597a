package viewport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/pkg/geometry"
)

const tolerance = 1e-9

func assertPointNear(t *testing.T, want, got geometry.Point2D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tolerance, "x")
	assert.InDelta(t, want.Y, got.Y, tolerance, "y")
}

func TestStartsAtIdentity(t *testing.T) {
	c := NewController(DefaultLimits())
	assert.Equal(t, IdentityTransform(), c.CurrentTransform())
	assert.Equal(t, 1.0, c.CurrentTransform().Scale)
	assert.Equal(t, Idle, c.State())
}

func TestStateTransitions(t *testing.T) {
	c := NewController(DefaultLimits())
	p := geometry.NewPoint2D(10, 10)

	c.OnPointerMove(p)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, IdentityTransform(), c.CurrentTransform(), "moves while idle do not pan")

	c.OnPointerDown(p)
	assert.Equal(t, Dragging, c.State())

	c.OnPointerMove(geometry.NewPoint2D(15, 12))
	assert.Equal(t, Dragging, c.State())

	c.OnPointerUp(geometry.NewPoint2D(15, 12))
	assert.Equal(t, Idle, c.State())

	before := c.CurrentTransform()
	c.OnPointerMove(geometry.NewPoint2D(100, 100))
	assert.Equal(t, before, c.CurrentTransform(), "no pan after release")
}

func TestScaleStaysWithinLimits(t *testing.T) {
	c := NewController(DefaultLimits())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		dir := 1
		if rng.Intn(2) == 0 {
			dir = -1
		}
		c.OnWheelAt(geometry.NewPoint2D(rng.Float64()*1000, rng.Float64()*500), dir)
		s := c.CurrentTransform().Scale
		require.GreaterOrEqual(t, s, 1.0)
		require.LessOrEqual(t, s, 5.0)
	}
}

func TestZoomPinsAtBounds(t *testing.T) {
	c := NewController(DefaultLimits())

	for i := 0; i < 40; i++ {
		c.OnWheel(1)
	}
	assert.Equal(t, 5.0, c.CurrentTransform().Scale)
	assert.False(t, c.Handle(Event{Kind: Wheel, Direction: 1}), "tick at the bound changes nothing")

	for i := 0; i < 40; i++ {
		c.OnWheel(-1)
	}
	assert.Equal(t, 1.0, c.CurrentTransform().Scale)
	assert.False(t, c.Handle(Event{Kind: Wheel, Direction: -1}))
}

func TestZoomOutAtInitialScaleIsNoop(t *testing.T) {
	c := NewController(DefaultLimits())
	c.OnWheelAt(geometry.NewPoint2D(300, 200), -1)
	assert.Equal(t, IdentityTransform(), c.CurrentTransform())
}

func TestZoomKeepsPointUnderCursor(t *testing.T) {
	c := NewController(DefaultLimits())

	// Move away from identity first so the property is not trivially true.
	c.OnPointerDown(geometry.NewPoint2D(50, 50))
	c.OnPointerMove(geometry.NewPoint2D(80, 20))
	c.OnPointerUp(geometry.NewPoint2D(80, 20))
	c.OnWheelAt(geometry.NewPoint2D(10, 400), 1)

	p := geometry.NewPoint2D(420, 180)
	world := c.CurrentTransform().ToWorld(p)

	c.OnWheelAt(p, 1)
	assert.InDelta(t, 1.21, c.CurrentTransform().Scale, tolerance)
	assertPointNear(t, p, c.CurrentTransform().ToScreen(world))

	c.OnWheelAt(p, -1)
	assertPointNear(t, p, c.CurrentTransform().ToScreen(world))
}

func TestOnWheelUsesLastPointer(t *testing.T) {
	c := NewController(DefaultLimits())
	p := geometry.NewPoint2D(250, 125)
	c.OnPointerMove(p)
	world := c.CurrentTransform().ToWorld(p)

	c.OnWheel(1)
	assertPointNear(t, p, c.CurrentTransform().ToScreen(world))
}

func TestPanRoundTrip(t *testing.T) {
	for _, zoomTicks := range []int{0, 3, 12} {
		c := NewController(DefaultLimits())
		for i := 0; i < zoomTicks; i++ {
			c.OnWheelAt(geometry.NewPoint2D(333, 111), 1)
		}
		start := c.CurrentTransform()

		a := geometry.NewPoint2D(100, 100)
		b := geometry.NewPoint2D(240, 37)
		c.OnPointerDown(a)
		c.OnPointerMove(b)
		c.OnPointerMove(a)
		c.OnPointerUp(a)

		assertPointNear(t, start.Pan, c.CurrentTransform().Pan)
		assert.Equal(t, start.Scale, c.CurrentTransform().Scale)
	}
}

func TestPanFollowsCursorAtAnyZoom(t *testing.T) {
	for _, zoomTicks := range []int{0, 5, 16} {
		c := NewController(DefaultLimits())
		for i := 0; i < zoomTicks; i++ {
			c.OnWheelAt(geometry.NewPoint2D(0, 0), 1)
		}

		a := geometry.NewPoint2D(200, 200)
		b := geometry.NewPoint2D(260, 170)
		grabbed := c.CurrentTransform().ToWorld(a)

		c.OnPointerDown(a)
		c.OnPointerMove(b)

		// The world point grabbed at a is now under the cursor at b.
		assertPointNear(t, b, c.CurrentTransform().ToScreen(grabbed))
	}
}

func TestOnChangeAndReset(t *testing.T) {
	c := NewController(DefaultLimits())
	var calls []ViewTransform
	c.OnChange(func(vt ViewTransform) { calls = append(calls, vt) })

	c.OnWheelAt(geometry.NewPoint2D(10, 10), 1)
	c.OnPointerDown(geometry.NewPoint2D(0, 0))
	c.OnPointerMove(geometry.NewPoint2D(0, 0)) // zero delta, no repaint
	c.OnPointerMove(geometry.NewPoint2D(5, 0))
	require.Len(t, calls, 2)

	c.Reset()
	assert.Equal(t, IdentityTransform(), c.CurrentTransform())
	assert.Equal(t, Idle, c.State())
	assert.Len(t, calls, 3)
}

func TestNewControllerSanitisesLimits(t *testing.T) {
	c := NewController(Limits{})
	assert.Equal(t, DefaultLimits().ZoomStep, c.limits.ZoomStep)
	assert.Equal(t, 1.0, c.limits.MinScale)
	assert.Equal(t, 1.0, c.limits.MaxScale)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
}

func TestSetTransformClamps(t *testing.T) {
	c := NewController(DefaultLimits())
	c.OnPointerDown(geometry.NewPoint2D(1, 1))

	c.SetTransform(ViewTransform{Scale: 9, Pan: geometry.NewPoint2D(-30, 12)})
	assert.Equal(t, 5.0, c.CurrentTransform().Scale)
	assert.Equal(t, geometry.NewPoint2D(-30, 12), c.CurrentTransform().Pan)
	assert.Equal(t, Idle, c.State())

	c.SetTransform(ViewTransform{Scale: 0.2})
	assert.Equal(t, 1.0, c.CurrentTransform().Scale)
}

func TestPointerTracksLastEvent(t *testing.T) {
	c := NewController(DefaultLimits())
	c.OnPointerMove(geometry.NewPoint2D(42, 7))
	assert.Equal(t, geometry.NewPoint2D(42, 7), c.Pointer())
}
