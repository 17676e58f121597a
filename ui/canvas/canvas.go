// Package canvas provides the graphics view: a raster widget that draws a
// scene through a pan/zoom viewport.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sales-analytics/internal/scene"
	"sales-analytics/internal/viewport"
	"sales-analytics/pkg/geometry"
)

// SceneCanvas shows a scene and routes mouse input to a viewport
// controller: drag pans, the wheel zooms around the pointer.
//
// Scene and controller are guarded by mu so a report refreshed from a
// background goroutine cannot race with input handling or drawing.
// Callbacks and raster refreshes run after mu is released.
type SceneCanvas struct {
	widget.BaseWidget

	mu         sync.Mutex
	scene      *scene.Scene
	controller *viewport.Controller
	changed    bool
	minSize    fyne.Size
	lastOutput image.Image

	images      ImageSource
	raster      *fynecanvas.Raster
	onTransform func(viewport.ViewTransform)
}

var (
	_ fyne.Widget       = (*SceneCanvas)(nil)
	_ fyne.Draggable    = (*SceneCanvas)(nil)
	_ fyne.Scrollable   = (*SceneCanvas)(nil)
	_ desktop.Mouseable = (*SceneCanvas)(nil)
	_ desktop.Hoverable = (*SceneCanvas)(nil)
)

// NewSceneCanvas creates an empty graphics view.
func NewSceneCanvas(limits viewport.Limits, images ImageSource) *SceneCanvas {
	sc := &SceneCanvas{
		controller: viewport.NewController(limits),
		images:     images,
	}
	// Runs with mu held, from inside update.
	sc.controller.OnChange(func(viewport.ViewTransform) {
		sc.changed = true
	})

	sc.raster = fynecanvas.NewRaster(sc.draw)
	sc.raster.ScaleMode = fynecanvas.ImageScalePixels
	sc.raster.SetMinSize(fyne.NewSize(400, 300))

	sc.ExtendBaseWidget(sc)
	return sc
}

// update runs fn on the controller under the lock, then notifies the
// transform callback and redraws if the transform changed.
func (sc *SceneCanvas) update(fn func(c *viewport.Controller)) {
	sc.mu.Lock()
	sc.changed = false
	fn(sc.controller)
	changed, t, callback := sc.changed, sc.controller.CurrentTransform(), sc.onTransform
	sc.mu.Unlock()

	if !changed {
		return
	}
	if callback != nil {
		callback(t)
	}
	sc.Refresh()
}

// SetScene replaces the displayed scene and resets the viewport. The
// minimum size follows the scene size; refreshing a scene of the same size
// leaves the raster's layout untouched.
func (sc *SceneCanvas) SetScene(s *scene.Scene) {
	var resize bool
	var size fyne.Size
	sc.update(func(c *viewport.Controller) {
		if s != nil && s.Size.Width > 0 && s.Size.Height > 0 {
			size = fyne.NewSize(float32(s.Size.Width), float32(s.Size.Height))
			resize = size != sc.minSize
			sc.minSize = size
		}
		sc.scene = s
		c.Reset()
	})
	if resize {
		sc.raster.SetMinSize(size)
	}
	sc.Refresh()
}

// Scene returns the displayed scene.
func (sc *SceneCanvas) Scene() *scene.Scene {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.scene
}

// Transform returns the current view transform.
func (sc *SceneCanvas) Transform() viewport.ViewTransform {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.controller.CurrentTransform()
}

// ResetView returns to the identity transform.
func (sc *SceneCanvas) ResetView() {
	sc.update(func(c *viewport.Controller) { c.Reset() })
}

// SetTransform jumps to t, clamped to the zoom limits.
func (sc *SceneCanvas) SetTransform(t viewport.ViewTransform) {
	sc.update(func(c *viewport.Controller) { c.SetTransform(t) })
}

// OnTransformChange sets a callback invoked after every pan or zoom.
func (sc *SceneCanvas) OnTransformChange(callback func(viewport.ViewTransform)) {
	sc.mu.Lock()
	sc.onTransform = callback
	sc.mu.Unlock()
}

// GetRenderedOutput returns the last drawn frame.
func (sc *SceneCanvas) GetRenderedOutput() image.Image {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.lastOutput
}

// Refresh redraws the raster.
func (sc *SceneCanvas) Refresh() {
	sc.raster.Refresh()
}

// MouseDown implements desktop.Mouseable.
func (sc *SceneCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	sc.update(func(c *viewport.Controller) { c.OnPointerDown(toPoint(ev.Position)) })
}

// MouseUp implements desktop.Mouseable.
func (sc *SceneCanvas) MouseUp(ev *desktop.MouseEvent) {
	sc.update(func(c *viewport.Controller) { c.OnPointerUp(toPoint(ev.Position)) })
}

// MouseIn implements desktop.Hoverable.
func (sc *SceneCanvas) MouseIn(ev *desktop.MouseEvent) {
	sc.update(func(c *viewport.Controller) { c.OnPointerMove(toPoint(ev.Position)) })
}

// MouseMoved implements desktop.Hoverable.
func (sc *SceneCanvas) MouseMoved(ev *desktop.MouseEvent) {
	sc.update(func(c *viewport.Controller) { c.OnPointerMove(toPoint(ev.Position)) })
}

// MouseOut implements desktop.Hoverable.
func (sc *SceneCanvas) MouseOut() {}

// Dragged implements fyne.Draggable.
func (sc *SceneCanvas) Dragged(ev *fyne.DragEvent) {
	sc.update(func(c *viewport.Controller) { c.OnPointerMove(toPoint(ev.Position)) })
}

// DragEnd implements fyne.Draggable.
func (sc *SceneCanvas) DragEnd() {
	sc.update(func(c *viewport.Controller) { c.OnPointerUp(c.Pointer()) })
}

// Scrolled implements fyne.Scrollable. Wheel up zooms in around the pointer.
func (sc *SceneCanvas) Scrolled(ev *fyne.ScrollEvent) {
	dir := 0
	switch {
	case ev.Scrolled.DY > 0:
		dir = 1
	case ev.Scrolled.DY < 0:
		dir = -1
	default:
		return
	}
	sc.update(func(c *viewport.Controller) { c.OnWheelAt(toPoint(ev.Position), dir) })
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

// draw is the raster drawing function. A scene is not modified after it is
// built, so only the scene pointer and transform are read under the lock.
func (sc *SceneCanvas) draw(w, h int) image.Image {
	sc.mu.Lock()
	s, t := sc.scene, sc.controller.CurrentTransform().Affine()
	sc.mu.Unlock()

	surf := NewRasterSurface(w, h, sc.images)
	if s != nil {
		// The raster may be drawn at device pixels rather than widget units.
		if size := sc.Size(); size.Width > 0 && size.Height > 0 {
			device := geometry.Scale(float64(w)/float64(size.Width), float64(h)/float64(size.Height))
			t = device.Compose(t)
		}
		s.Replay(surf, t)
	}
	img := surf.Image()

	sc.mu.Lock()
	sc.lastOutput = img
	sc.mu.Unlock()
	return img
}

// CreateRenderer implements fyne.Widget.
func (sc *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sc.raster)
}
