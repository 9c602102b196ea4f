package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"constellation-viewer/pkg/geometry"
)

var (
	// ErrCanvasClosed is returned once a canvas has been closed.
	ErrCanvasClosed = errors.New("canvas closed")
	// ErrCanvasUnsized is returned by Context before the first Resize.
	ErrCanvasUnsized = errors.New("canvas has no size")
	// ErrNoImage is returned when Render is given no decoded photograph.
	ErrNoImage = errors.New("no image to render")
)

// Canvas is a drawing surface whose pixel grid can be resized to match the
// photograph exactly.
type Canvas interface {
	// Resize sets the pixel dimensions and clears the surface.
	Resize(width, height int) error
	// Context returns the 2D painter, or an error if none can be obtained.
	Context() (Painter, error)
	// Image returns the rendered pixels, or nil before the first Resize.
	Image() image.Image
}

// Painter draws in canvas pixel coordinates.
type Painter interface {
	DrawImage(img image.Image)
	StrokeLine(seg geometry.LineSegment, s Stroke) error
	FillDisc(center geometry.Point2D, radius float64, c color.NRGBA) error
}

// RenderContextError reports that the canvas could not provide a drawing
// context. Nothing has been drawn when it is returned.
type RenderContextError struct {
	Op  string
	Err error
}

func (e *RenderContextError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("render context %s failed", e.Op)
	}
	return fmt.Sprintf("render context %s failed: %v", e.Op, e.Err)
}

func (e *RenderContextError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func validSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return nil
}
