package canvas

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/colorutil"
	"sales-analytics/pkg/geometry"
)

// ImageSource resolves background image paths.
type ImageSource interface {
	Get(path string) image.Image
}

// RasterSurface draws scene commands into an in-memory RGBA image with gg.
// Geometry goes through the applied transform; labels keep their pixel size.
type RasterSurface struct {
	dc        *gg.Context
	images    ImageSource
	transform geometry.AffineTransform
}

var _ scene.Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a w x h surface cleared to white.
func NewRasterSurface(w, h int, images ImageSource) *RasterSurface {
	dc := gg.NewContext(w, h)
	dc.SetColor(colorutil.White)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return &RasterSurface{dc: dc, images: images, transform: geometry.Identity()}
}

// Image returns the drawn image.
func (s *RasterSurface) Image() image.Image {
	return s.dc.Image()
}

// ApplyTransform implements scene.Surface.
func (s *RasterSurface) ApplyTransform(t geometry.AffineTransform) {
	s.transform = t
}

// DrawImage implements scene.Surface. Missing images draw nothing.
func (s *RasterSurface) DrawImage(path string, _ int) {
	if s.images == nil {
		return
	}
	img := s.images.Get(path)
	if img == nil {
		return
	}
	s.dc.Push()
	s.dc.Translate(s.transform.TX, s.transform.TY)
	s.dc.Scale(s.transform.A, s.transform.D)
	s.dc.DrawImage(img, 0, 0)
	s.dc.Pop()
}

// DrawCircle implements scene.Surface.
func (s *RasterSurface) DrawCircle(b geometry.Rect, fill color.Color) {
	c := s.transform.Apply(b.Center())
	s.dc.DrawEllipse(c.X, c.Y, b.Width/2*s.transform.A, b.Height/2*s.transform.D)
	s.dc.SetColor(fill)
	s.dc.Fill()
}

// DrawText implements scene.Surface. anchor is the top-left corner of the
// first line.
func (s *RasterSurface) DrawText(text string, anchor geometry.Point2D) {
	p := s.transform.Apply(anchor)
	s.dc.SetColor(colorutil.Black)
	lineHeight := float64(basicfont.Face7x13.Height)
	for i, line := range strings.Split(text, "\n") {
		s.dc.DrawStringAnchored(line, p.X, p.Y+float64(i)*lineHeight, 0, 1)
	}
}

// DrawPolygon implements scene.Surface.
func (s *RasterSurface) DrawPolygon(points []geometry.Point2D, stroke, fill color.Color) {
	if len(points) < 2 {
		return
	}
	for _, pt := range points {
		p := s.transform.Apply(pt)
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.ClosePath()
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(2)
	s.dc.Stroke()
}
