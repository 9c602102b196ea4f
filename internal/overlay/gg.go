package overlay

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"constellation-viewer/pkg/colorutil"
	"constellation-viewer/pkg/geometry"
)

// GGCanvas is a Canvas backed by a gogpu/gg software context.
// It is not safe for concurrent use.
type GGCanvas struct {
	dc     *gg.Context
	closed bool
}

// NewGGCanvas returns an unsized gg canvas.
func NewGGCanvas() *GGCanvas {
	return &GGCanvas{}
}

// Resize implements Canvas.
func (c *GGCanvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := validSize(width, height); err != nil {
		return err
	}
	if c.dc == nil {
		c.dc = gg.NewContext(width, height)
		return nil
	}
	if err := c.dc.Resize(width, height); err != nil {
		return err
	}
	// Resize keeps the pixmap when the size is unchanged.
	c.dc.Clear()
	return nil
}

// Context implements Canvas.
func (c *GGCanvas) Context() (Painter, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if c.dc == nil {
		return nil, ErrCanvasUnsized
	}
	return ggPainter{dc: c.dc}, nil
}

// Image implements Canvas.
func (c *GGCanvas) Image() image.Image {
	if c.dc == nil {
		return nil
	}
	_ = c.dc.FlushGPU()
	return c.dc.Image()
}

// Close releases the context. Later calls to Resize and Context fail.
func (c *GGCanvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.dc == nil {
		return nil
	}
	return c.dc.Close()
}

type ggPainter struct {
	dc *gg.Context
}

func (p ggPainter) DrawImage(img image.Image) {
	b := img.Bounds()
	p.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		DstWidth:      float64(b.Dx()),
		DstHeight:     float64(b.Dy()),
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (p ggPainter) StrokeLine(seg geometry.LineSegment, s Stroke) error {
	p.dc.SetRGBA(colorutil.Floats(s.Color))
	p.dc.SetLineWidth(s.Width)
	p.dc.DrawLine(seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y)
	return p.dc.Stroke()
}

func (p ggPainter) FillDisc(center geometry.Point2D, radius float64, c color.NRGBA) error {
	p.dc.SetRGBA(colorutil.Floats(c))
	p.dc.DrawCircle(center.X, center.Y, radius)
	return p.dc.Fill()
}
