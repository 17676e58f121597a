// Package export replays scenes onto an OpenCV matrix and writes them to
// image files. It backs the headless map export.
package export

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/colorutil"
	"sales-analytics/pkg/geometry"
)

const (
	labelFont      = gocv.FontHersheySimplex
	labelScale     = 0.4
	labelThickness = 1
	lineSpacing    = 4
	strokeWidth    = 2
)

// Surface is a scene.Surface drawing into a BGR matrix. Close releases it.
type Surface struct {
	mat       gocv.Mat
	transform geometry.AffineTransform
	log       zerolog.Logger
}

var _ scene.Surface = (*Surface)(nil)

// NewSurface creates a w x h surface cleared to white.
func NewSurface(w, h int, log zerolog.Logger) *Surface {
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(255, 255, 255, 0))
	return &Surface{mat: mat, transform: geometry.Identity(), log: log}
}

// Close releases the matrix.
func (s *Surface) Close() error {
	return s.mat.Close()
}

// ApplyTransform implements scene.Surface.
func (s *Surface) ApplyTransform(t geometry.AffineTransform) {
	s.transform = t
}

// DrawImage implements scene.Surface. The image is warped through the
// current transform onto a white frame, replacing what was drawn before.
func (s *Surface) DrawImage(path string, z int) {
	src := gocv.IMRead(path, gocv.IMReadColor)
	defer src.Close()
	if src.Empty() {
		s.log.Warn().Str("path", path).Int("z", z).Msg("background image unavailable")
		return
	}

	warped := warpAffine(src, s.transform, s.mat.Cols(), s.mat.Rows())
	defer warped.Close()
	warped.CopyTo(&s.mat)
}

// warpAffine applies an affine transform to an image, filling the border
// with white.
func warpAffine(src gocv.Mat, t geometry.AffineTransform, width, height int) gocv.Mat {
	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	transformMat.SetDoubleAt(0, 0, t.A)
	transformMat.SetDoubleAt(0, 1, t.B)
	transformMat.SetDoubleAt(0, 2, t.TX)
	transformMat.SetDoubleAt(1, 0, t.C)
	transformMat.SetDoubleAt(1, 1, t.D)
	transformMat.SetDoubleAt(1, 2, t.TY)
	defer transformMat.Close()

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, transformMat, image.Point{width, height},
		gocv.InterpolationLinear, gocv.BorderConstant, colorutil.White)
	return dst
}

// DrawCircle implements scene.Surface.
func (s *Surface) DrawCircle(b geometry.Rect, fill color.Color) {
	c := s.transform.Apply(b.Center())
	axes := image.Point{
		X: int(math.Round(b.Width / 2 * s.transform.A)),
		Y: int(math.Round(b.Height / 2 * s.transform.D)),
	}
	gocv.Ellipse(&s.mat, toPoint(c), axes, 0, 0, 360, toRGBA(fill), -1)
}

// DrawText implements scene.Surface. anchor is the top-left corner of the
// first line.
func (s *Surface) DrawText(text string, anchor geometry.Point2D) {
	p := toPoint(s.transform.Apply(anchor))
	for _, line := range strings.Split(text, "\n") {
		size := gocv.GetTextSize(line, labelFont, labelScale, labelThickness)
		p.Y += size.Y
		gocv.PutText(&s.mat, line, p, labelFont, labelScale, toRGBA(colorutil.Black), labelThickness)
		p.Y += lineSpacing
	}
}

// DrawPolygon implements scene.Surface. Translucent fills are blended
// with AddWeighted.
func (s *Surface) DrawPolygon(points []geometry.Point2D, stroke, fill color.Color) {
	if len(points) < 2 {
		return
	}
	pts := make([]image.Point, len(points))
	for i, pt := range points {
		pts[i] = toPoint(s.transform.Apply(pt))
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()

	f := toRGBA(fill)
	switch {
	case f.A == 255:
		gocv.FillPoly(&s.mat, pv, f)
	case f.A > 0:
		layer := s.mat.Clone()
		gocv.FillPoly(&layer, pv, f)
		alpha := float64(f.A) / 255
		gocv.AddWeighted(layer, alpha, s.mat, 1-alpha, 0, &s.mat)
		layer.Close()
	}
	gocv.Polylines(&s.mat, pv, true, toRGBA(stroke), strokeWidth)
}

// Write encodes the surface to path; the format follows the extension.
func (s *Surface) Write(path string) error {
	if !gocv.IMWrite(path, s.mat) {
		return fmt.Errorf("write %s: encoding failed", path)
	}
	return nil
}

// At returns the color at pixel (x, y).
func (s *Surface) At(x, y int) color.RGBA {
	v := s.mat.GetVecbAt(y, x)
	return color.RGBA{R: v[2], G: v[1], B: v[0], A: 255}
}

func toPoint(p geometry.Point2D) image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return color.RGBA{}
	}
	// Un-premultiply so translucent fills keep their hue.
	return color.RGBA{
		R: uint8(r * 0xffff / a >> 8),
		G: uint8(g * 0xffff / a >> 8),
		B: uint8(b * 0xffff / a >> 8),
		A: uint8(a >> 8),
	}
}
