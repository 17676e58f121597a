// Package viewport implements pan and zoom over a fixed-size drawing surface.
//
// The view transform maps world coordinates to screen coordinates as
//
//	screen = (world + Pan) * Scale
//
// so a pan adjustment expressed in world units is added to Pan directly.
package viewport

import (
	"math"

	"sales-analytics/pkg/geometry"
)

// ViewTransform is a uniform scale plus a pan offset in world units.
type ViewTransform struct {
	Scale float64
	Pan   geometry.Vector2
}

// IdentityTransform is the transform of a freshly loaded scene.
func IdentityTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}

// Affine returns the world-to-screen matrix.
func (t ViewTransform) Affine() geometry.AffineTransform {
	return geometry.Scale(t.Scale, t.Scale).Compose(geometry.Translation(t.Pan.X, t.Pan.Y))
}

// ToScreen maps a world point to screen space.
func (t ViewTransform) ToScreen(world geometry.Point2D) geometry.Point2D {
	return t.Affine().Apply(world)
}

// ToWorld maps a screen point back to world space.
func (t ViewTransform) ToWorld(screen geometry.Point2D) geometry.Point2D {
	inv, ok := t.Affine().Inverse()
	if !ok {
		return screen
	}
	return inv.Apply(screen)
}

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// EventKind identifies an input event.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	Wheel
)

// Event is one raw input event. Pos is in screen coordinates; Direction is
// the wheel direction (>0 zooms in, <0 zooms out).
type Event struct {
	Kind      EventKind
	Pos       geometry.Point2D
	Direction int
}

// Limits bound the zoom relative to the initial scale of 1.
type Limits struct {
	ZoomStep float64
	MinScale float64
	MaxScale float64
}

// DefaultLimits allow zooming in to 5x and never out past the initial fit.
func DefaultLimits() Limits {
	return Limits{ZoomStep: 1.1, MinScale: 1.0, MaxScale: 5.0}
}

// Controller owns the view transform and updates it from input events.
// It is not safe for concurrent use; all calls come from the UI thread.
type Controller struct {
	limits    Limits
	state     State
	anchor    geometry.Point2D // drag anchor, raw screen position
	pointer   geometry.Point2D // last known pointer position
	transform ViewTransform

	onChange func(ViewTransform)
}

// NewController creates a controller at the identity transform.
func NewController(limits Limits) *Controller {
	def := DefaultLimits()
	if limits.ZoomStep <= 1 {
		limits.ZoomStep = def.ZoomStep
	}
	if limits.MinScale <= 0 {
		limits.MinScale = def.MinScale
	}
	if limits.MaxScale < limits.MinScale {
		limits.MaxScale = limits.MinScale
	}
	return &Controller{limits: limits, transform: IdentityTransform()}
}

// OnChange sets the repaint callback, invoked after every transform change.
func (c *Controller) OnChange(callback func(ViewTransform)) {
	c.onChange = callback
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// CurrentTransform returns the transform to render with.
func (c *Controller) CurrentTransform() ViewTransform {
	return c.transform
}

// Pointer returns the last known pointer position.
func (c *Controller) Pointer() geometry.Point2D {
	return c.pointer
}

// Reset returns to the identity transform and the idle state. It is called
// whenever a new scene is loaded.
func (c *Controller) Reset() {
	c.state = Idle
	c.set(IdentityTransform())
}

// SetTransform jumps to t with its scale clamped to the limits and ends
// any drag in progress.
func (c *Controller) SetTransform(t ViewTransform) {
	t.Scale = math.Max(c.limits.MinScale, math.Min(c.limits.MaxScale, t.Scale))
	c.state = Idle
	c.set(t)
}

// OnPointerDown starts a drag at pos.
func (c *Controller) OnPointerDown(pos geometry.Point2D) {
	c.Handle(Event{Kind: PointerDown, Pos: pos})
}

// OnPointerMove pans while dragging and tracks the zoom anchor otherwise.
func (c *Controller) OnPointerMove(pos geometry.Point2D) {
	c.Handle(Event{Kind: PointerMove, Pos: pos})
}

// OnPointerUp ends a drag.
func (c *Controller) OnPointerUp(pos geometry.Point2D) {
	c.Handle(Event{Kind: PointerUp, Pos: pos})
}

// OnWheel zooms one step at the last known pointer position.
func (c *Controller) OnWheel(direction int) {
	c.Handle(Event{Kind: Wheel, Pos: c.pointer, Direction: direction})
}

// OnWheelAt zooms one step keeping the world point under pos fixed.
func (c *Controller) OnWheelAt(pos geometry.Point2D, direction int) {
	c.Handle(Event{Kind: Wheel, Pos: pos, Direction: direction})
}

// Handle is the transition function. It reports whether the transform
// changed.
func (c *Controller) Handle(ev Event) bool {
	c.pointer = ev.Pos

	switch ev.Kind {
	case PointerDown:
		c.state = Dragging
		c.anchor = ev.Pos
		return false

	case PointerMove:
		if c.state != Dragging {
			return false
		}
		delta := c.transform.ToWorld(ev.Pos).Sub(c.transform.ToWorld(c.anchor))
		c.anchor = ev.Pos
		if delta == (geometry.Vector2{}) {
			return false
		}
		next := c.transform
		next.Pan = next.Pan.Add(delta)
		c.set(next)
		return true

	case PointerUp:
		c.state = Idle
		return false

	case Wheel:
		return c.zoom(ev.Pos, ev.Direction)
	}
	return false
}

// zoom scales by one step keeping the world point under pos fixed. A step
// that would cross a limit pins the scale at that limit.
func (c *Controller) zoom(pos geometry.Point2D, direction int) bool {
	var factor float64
	switch {
	case direction > 0:
		factor = c.limits.ZoomStep
	case direction < 0:
		factor = 1 / c.limits.ZoomStep
	default:
		return false
	}

	cur := c.transform
	scale := math.Max(c.limits.MinScale, math.Min(c.limits.MaxScale, cur.Scale*factor))
	if scale == cur.Scale {
		return false
	}

	// World point under the cursor stays put:
	// (w + pan') * scale = pos  with  w = pos/cur.Scale - cur.Pan.
	world := cur.ToWorld(pos)
	next := ViewTransform{
		Scale: scale,
		Pan:   pos.Scale(1 / scale).Sub(world),
	}
	c.set(next)
	return true
}

func (c *Controller) set(t ViewTransform) {
	c.transform = t
	if c.onChange != nil {
		c.onChange(t)
	}
}
