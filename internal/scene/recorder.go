package scene

import (
	"fmt"
	"image/color"

	"sales-analytics/pkg/geometry"
)

// Recorder is a Surface that records the calls it receives as text, for
// asserting on scenes without rasterizing them.
type Recorder struct {
	Transform geometry.AffineTransform
	Calls     []string
}

var _ Surface = (*Recorder)(nil)

// ApplyTransform implements Surface.
func (r *Recorder) ApplyTransform(t geometry.AffineTransform) {
	r.Transform = t
}

// DrawImage implements Surface.
func (r *Recorder) DrawImage(path string, z int) {
	r.Calls = append(r.Calls, fmt.Sprintf("image %s z=%d", path, z))
}

// DrawCircle implements Surface.
func (r *Recorder) DrawCircle(b geometry.Rect, fill color.Color) {
	cr, cg, cb, _ := fill.RGBA()
	r.Calls = append(r.Calls, fmt.Sprintf("circle %.2f,%.2f %.2fx%.2f rgb(%d,%d,%d)",
		b.X, b.Y, b.Width, b.Height, cr>>8, cg>>8, cb>>8))
}

// DrawText implements Surface.
func (r *Recorder) DrawText(text string, anchor geometry.Point2D) {
	r.Calls = append(r.Calls, fmt.Sprintf("text %q %.2f,%.2f", text, anchor.X, anchor.Y))
}

// DrawPolygon implements Surface.
func (r *Recorder) DrawPolygon(points []geometry.Point2D, stroke, fill color.Color) {
	r.Calls = append(r.Calls, fmt.Sprintf("polygon %d", len(points)))
}
