package mainwindow

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	xdraw "golang.org/x/image/draw"
)

// chartView shows the latest chart image scaled to fit, keeping its aspect
// ratio. The image can be replaced from any goroutine.
type chartView struct {
	mu     sync.RWMutex
	img    image.Image
	raster *fynecanvas.Raster
}

func newChartView(minSize fyne.Size) *chartView {
	cv := &chartView{}
	cv.raster = fynecanvas.NewRaster(cv.draw)
	cv.raster.SetMinSize(minSize)
	return cv
}

// SetImage replaces the chart. nil clears it.
func (cv *chartView) SetImage(img image.Image) {
	cv.mu.Lock()
	cv.img = img
	cv.mu.Unlock()
	cv.raster.Refresh()
}

// Image returns the current chart, or nil.
func (cv *chartView) Image() image.Image {
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.img
}

func (cv *chartView) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	src := cv.Image()
	if src == nil || w <= 0 || h <= 0 {
		return dst
	}
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}
	scale := min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	dw, dh := int(float64(sb.Dx())*scale), int(float64(sb.Dy())*scale)
	ox, oy := (w-dw)/2, (h-dh)/2
	xdraw.CatmullRom.Scale(dst, image.Rect(ox, oy, ox+dw, oy+dh), src, sb, xdraw.Over, nil)
	return dst
}
