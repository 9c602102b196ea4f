// Package canvas shows a rendered photograph in a scrollable view with
// wheel zoom and fit-to-window. It only displays pixels it is given.
package canvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// fitMargin keeps a fitted image clear of the scroll bars.
	fitMargin = 0.95
)

// emptySize is the surface size while no image is shown.
var emptySize = fyne.NewSize(400, 300)

// ImageCanvas displays one image scaled by a zoom factor.
type ImageCanvas struct {
	widget.BaseWidget

	img  image.Image
	zoom float64
	fit  bool

	surface  *surface
	scroll   *wheelScroll
	viewport fyne.Size // Last size the view was laid out at

	onZoom  func(zoom float64)
	onClick func(x, y float64)
}

// NewImageCanvas creates an empty canvas at 100% zoom.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{zoom: 1}
	ic.surface = newSurface(ic)
	ic.scroll = newWheelScroll(ic)
	ic.ExtendBaseWidget(ic)
	ic.resizeSurface()
	return ic
}

// Container returns the object to place in a layout.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetImage shows img; nil clears the view.
func (ic *ImageCanvas) SetImage(img image.Image) {
	ic.img = img
	if ic.fit && ic.fitNow() {
		return
	}
	ic.resizeSurface()
}

// GetImage returns the displayed image.
func (ic *ImageCanvas) GetImage() image.Image {
	return ic.img
}

// SetZoom sets the scale factor, clamped to [0.1, 10].
func (ic *ImageCanvas) SetZoom(zoom float64) {
	ic.zoom = max(minZoom, min(maxZoom, zoom))
	ic.resizeSurface()
	if ic.onZoom != nil {
		ic.onZoom(ic.zoom)
	}
}

// GetZoom returns the scale factor.
func (ic *ImageCanvas) GetZoom() float64 {
	return ic.zoom
}

func (ic *ImageCanvas) ZoomIn()  { ic.SetZoom(ic.zoom * zoomStep) }
func (ic *ImageCanvas) ZoomOut() { ic.SetZoom(ic.zoom / zoomStep) }

// FitToWindow scales the image to the visible area once.
func (ic *ImageCanvas) FitToWindow() {
	ic.fitNow()
}

// SetFitToWindow turns automatic fitting on resize on or off.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fit = fit
	if fit {
		ic.fitNow()
	}
}

// GetFitToWindow reports whether automatic fitting is on.
func (ic *ImageCanvas) GetFitToWindow() bool {
	return ic.fit
}

// OnZoomChange registers a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(fn func(zoom float64)) {
	ic.onZoom = fn
}

// OnLeftClick registers a callback for clicks, in image pixels.
func (ic *ImageCanvas) OnLeftClick(fn func(x, y float64)) {
	ic.onClick = fn
}

// ImageToCanvas converts image pixels to surface coordinates.
func (ic *ImageCanvas) ImageToCanvas(x, y float64) (float64, float64) {
	return x * ic.zoom, y * ic.zoom
}

// CanvasToImage converts surface coordinates to image pixels.
func (ic *ImageCanvas) CanvasToImage(x, y float64) (float64, float64) {
	return x / ic.zoom, y / ic.zoom
}

// Refresh redraws the image.
func (ic *ImageCanvas) Refresh() {
	ic.surface.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{ic: ic}
}

// fitNow applies the fit zoom. It returns false when there is no image or
// the view has not been laid out yet.
func (ic *ImageCanvas) fitNow() bool {
	b := ic.bounds()
	view := ic.scroll.Size()
	if b.Empty() || view.Width <= 0 || view.Height <= 0 {
		return false
	}
	ic.SetZoom(fitZoom(b, view))
	return true
}

// layout is called when the view is resized.
func (ic *ImageCanvas) layout(size fyne.Size) {
	ic.scroll.Resize(size)
	if size == ic.viewport || size.Width <= 0 || size.Height <= 0 {
		return
	}
	ic.viewport = size
	if ic.fit {
		ic.fitNow()
	}
}

func (ic *ImageCanvas) bounds() image.Rectangle {
	if ic.img == nil {
		return image.Rectangle{}
	}
	return ic.img.Bounds()
}

// surfaceSize is the zoomed image size, or emptySize with no image.
func (ic *ImageCanvas) surfaceSize() fyne.Size {
	b := ic.bounds()
	if b.Empty() {
		return emptySize
	}
	return fyne.NewSize(float32(float64(b.Dx())*ic.zoom), float32(float64(b.Dy())*ic.zoom))
}

func (ic *ImageCanvas) resizeSurface() {
	size := ic.surfaceSize()
	ic.surface.raster.SetMinSize(size)
	ic.surface.Resize(size)
	ic.surface.Refresh()
	ic.scroll.Refresh()
}

// wheel zooms by one step per notch.
func (ic *ImageCanvas) wheel(dy float32) {
	switch {
	case dy > 0:
		ic.ZoomIn()
	case dy < 0:
		ic.ZoomOut()
	}
}

// paint renders the image into a w x h raster over opaque black.
func (ic *ImageCanvas) paint(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Rect, image.Black, image.Point{}, draw.Src)

	src := ic.bounds()
	if src.Empty() || w <= 0 || h <= 0 {
		return dst
	}
	if src.Dx() == w && src.Dy() == h {
		draw.Draw(dst, dst.Rect, ic.img, src.Min, draw.Over)
		return dst
	}

	// Hard pixel edges when magnifying, smooth when shrinking.
	var s xdraw.Scaler = xdraw.NearestNeighbor
	if w < src.Dx() {
		s = xdraw.ApproxBiLinear
	}
	s.Scale(dst, dst.Rect, ic.img, src, xdraw.Over, nil)
	return dst
}

// fitZoom returns the largest zoom that shows all of b inside view.
func fitZoom(b image.Rectangle, view fyne.Size) float64 {
	zx := float64(view.Width) / float64(b.Dx())
	zy := float64(view.Height) / float64(b.Dy())
	return min(zx, zy) * fitMargin
}

type imageCanvasRenderer struct {
	ic *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size)        { r.ic.layout(size) }
func (r *imageCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(100, 100) }
func (r *imageCanvasRenderer) Refresh()                     { r.ic.Refresh() }
func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.ic.scroll} }
func (r *imageCanvasRenderer) Destroy()                     {}

// surface holds the raster and turns taps into image coordinates.
type surface struct {
	widget.BaseWidget
	ic     *ImageCanvas
	raster *fynecanvas.Raster
}

func newSurface(ic *ImageCanvas) *surface {
	s := &surface{ic: ic}
	s.raster = fynecanvas.NewRaster(ic.paint)
	s.raster.ScaleMode = fynecanvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

func (s *surface) MinSize() fyne.Size {
	return s.raster.MinSize()
}

func (s *surface) Scrolled(ev *fyne.ScrollEvent) {
	s.ic.wheel(ev.Scrolled.DY)
}

// Tapped reports a click inside the image. Positions are relative to the
// surface, which moves with the scroll offset.
func (s *surface) Tapped(ev *fyne.PointEvent) {
	if s.ic.onClick == nil || s.ic.img == nil {
		return
	}
	size := s.Size()
	p := ev.Position
	if p.X < 0 || p.Y < 0 || p.X > size.Width || p.Y > size.Height {
		return
	}
	s.ic.onClick(s.ic.CanvasToImage(float64(p.X), float64(p.Y)))
}

// wheelScroll is a two-way scroll container whose mouse wheel zooms.
type wheelScroll struct {
	widget.BaseWidget
	ic     *ImageCanvas
	scroll *container.Scroll
}

func newWheelScroll(ic *ImageCanvas) *wheelScroll {
	ws := &wheelScroll{ic: ic, scroll: container.NewScroll(ic.surface)}
	ws.scroll.Direction = container.ScrollBoth
	ws.ExtendBaseWidget(ws)
	return ws
}

func (ws *wheelScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ws.scroll)
}

func (ws *wheelScroll) Scrolled(ev *fyne.ScrollEvent) {
	ws.ic.wheel(ev.Scrolled.DY)
}

func (ws *wheelScroll) Resize(size fyne.Size) {
	ws.scroll.Resize(size)
	ws.BaseWidget.Resize(size)
}

func (ws *wheelScroll) Refresh() {
	ws.scroll.Refresh()
	ws.BaseWidget.Refresh()
}
