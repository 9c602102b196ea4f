package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"constellation-viewer/pkg/geometry"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// RasterCanvas is a Canvas backed by an *image.RGBA and painted with the
// golang.org/x/image/vector rasterizer. It needs no GPU or cgo.
type RasterCanvas struct {
	img    *image.RGBA
	closed bool
}

// NewRasterCanvas returns an unsized raster canvas.
func NewRasterCanvas() *RasterCanvas {
	return &RasterCanvas{}
}

// Resize implements Canvas.
func (c *RasterCanvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := validSize(width, height); err != nil {
		return err
	}
	if c.img != nil && c.img.Rect.Dx() == width && c.img.Rect.Dy() == height {
		draw.Draw(c.img, c.img.Rect, image.Transparent, image.Point{}, draw.Src)
		return nil
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Context implements Canvas.
func (c *RasterCanvas) Context() (Painter, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if c.img == nil {
		return nil, ErrCanvasUnsized
	}
	return rasterPainter{dst: c.img}, nil
}

// Image implements Canvas.
func (c *RasterCanvas) Image() image.Image {
	if c.img == nil {
		return nil
	}
	return c.img
}

// Close marks the canvas unusable.
func (c *RasterCanvas) Close() error {
	c.closed = true
	return nil
}

type rasterPainter struct {
	dst *image.RGBA
}

func (p rasterPainter) DrawImage(img image.Image) {
	draw.Draw(p.dst, p.dst.Rect, img, img.Bounds().Min, draw.Over)
}

// StrokeLine fills the rectangle around seg with butt ends.
func (p rasterPainter) StrokeLine(seg geometry.LineSegment, s Stroke) error {
	if seg.Length() == 0 || s.Width <= 0 {
		return nil
	}
	off := r2.Scale(s.Width/2, seg.Normal())
	a, b := seg.Start.Vec(), seg.End.Vec()
	corners := [4]r2.Vec{r2.Add(a, off), r2.Add(b, off), r2.Sub(b, off), r2.Sub(a, off)}

	z := p.rasterizer()
	z.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for _, v := range corners[1:] {
		z.LineTo(float32(v.X), float32(v.Y))
	}
	z.ClosePath()
	z.Draw(p.dst, p.dst.Rect, image.NewUniform(s.Color), image.Point{})
	return nil
}

// FillDisc approximates the circle with four cubic segments.
func (p rasterPainter) FillDisc(center geometry.Point2D, radius float64, c color.NRGBA) error {
	if radius <= 0 {
		return nil
	}
	cx, cy := float32(center.X), float32(center.Y)
	r := float32(radius)
	k := float32(kappa) * r

	z := p.rasterizer()
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(p.dst, p.dst.Rect, image.NewUniform(c), image.Point{})
	return nil
}

func (p rasterPainter) rasterizer() *vector.Rasterizer {
	return vector.NewRasterizer(p.dst.Rect.Dx(), p.dst.Rect.Dy())
}
