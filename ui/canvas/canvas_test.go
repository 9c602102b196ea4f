package canvas

import (
	"image"
	"image/color"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestZoomClamps(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()

	var got []float64
	ic.OnZoomChange(func(z float64) { got = append(got, z) })

	ic.SetZoom(100)
	if ic.GetZoom() != maxZoom {
		t.Errorf("zoom = %v, want %v", ic.GetZoom(), maxZoom)
	}
	ic.SetZoom(0)
	if ic.GetZoom() != minZoom {
		t.Errorf("zoom = %v, want %v", ic.GetZoom(), minZoom)
	}
	ic.SetZoom(1)
	ic.ZoomIn()
	if math.Abs(ic.GetZoom()-zoomStep) > 1e-9 {
		t.Errorf("zoom in = %v", ic.GetZoom())
	}
	ic.ZoomOut()
	if math.Abs(ic.GetZoom()-1) > 1e-9 {
		t.Errorf("zoom out = %v", ic.GetZoom())
	}
	if len(got) != 5 {
		t.Errorf("callbacks = %d, want 5", len(got))
	}
}

func TestDrawNativeSize(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	red := color.RGBA{R: 255, A: 255}
	ic.SetImage(solid(4, 3, red))

	out := ic.paint(4, 3)
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 3 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := color.RGBAModel.Convert(out.At(2, 1)); got != red {
		t.Errorf("pixel = %v, want %v", got, red)
	}
}

func TestDrawScaled(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	src := solid(2, 2, color.RGBA{G: 255, A: 255})
	src.Set(0, 0, color.RGBA{B: 255, A: 255})
	ic.SetImage(src)

	out := ic.paint(8, 8)
	if got := color.RGBAModel.Convert(out.At(1, 1)); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top-left = %v, want blue", got)
	}
	if got := color.RGBAModel.Convert(out.At(6, 6)); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("bottom-right = %v, want green", got)
	}
}

func TestDrawEmptyIsBlack(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	out := ic.paint(2, 2)
	if got := color.RGBAModel.Convert(out.At(1, 1)); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel = %v, want opaque black", got)
	}
}

func TestContentSizeFollowsZoom(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	if got := ic.surfaceSize(); got != emptySize {
		t.Errorf("empty size = %v", got)
	}
	ic.SetImage(solid(100, 50, color.White))
	ic.SetZoom(2)
	if got := ic.surfaceSize(); got != fyne.NewSize(200, 100) {
		t.Errorf("size = %v, want 200x100", got)
	}
	ic.SetImage(nil)
	if got := ic.surfaceSize(); got != emptySize {
		t.Errorf("cleared size = %v", got)
	}
}

func TestCoordinateConversion(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	ic.SetZoom(2)
	cx, cy := ic.ImageToCanvas(10, 5)
	if cx != 20 || cy != 10 {
		t.Errorf("ImageToCanvas = %v,%v", cx, cy)
	}
	ix, iy := ic.CanvasToImage(cx, cy)
	if ix != 10 || iy != 5 {
		t.Errorf("CanvasToImage = %v,%v", ix, iy)
	}
}

func TestFitZoom(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		view   fyne.Size
		want   float64
	}{
		{"wide view", image.Rect(0, 0, 100, 100), fyne.NewSize(400, 200), 2 * 0.95},
		{"tall view", image.Rect(0, 0, 100, 100), fyne.NewSize(50, 400), 0.5 * 0.95},
		{"exact", image.Rect(0, 0, 200, 100), fyne.NewSize(200, 100), 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitZoom(tt.bounds, tt.view); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("fitZoom = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLeftClickReportsImageCoordinates(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	ic.SetImage(solid(100, 100, color.White))
	ic.SetZoom(2)

	var gx, gy float64
	called := false
	ic.OnLeftClick(func(x, y float64) { gx, gy, called = x, y, true })

	ic.surface.Tapped(&fyne.PointEvent{Position: fyne.NewPos(40, 60)})
	if !called || gx != 20 || gy != 30 {
		t.Errorf("click = %v (%v,%v), want (20,30)", called, gx, gy)
	}

	called = false
	ic.surface.Tapped(&fyne.PointEvent{Position: fyne.NewPos(-1, 5)})
	if called {
		t.Error("click outside bounds should be ignored")
	}
}

func TestFitFollowsLayout(t *testing.T) {
	test.NewTempApp(t)
	ic := NewImageCanvas()
	ic.SetImage(solid(100, 100, color.White))
	ic.SetFitToWindow(true)

	ic.layout(fyne.NewSize(400, 200))
	if math.Abs(ic.GetZoom()-2*fitMargin) > 1e-6 {
		t.Errorf("zoom = %v, want %v", ic.GetZoom(), 2*fitMargin)
	}

	ic.SetFitToWindow(false)
	ic.layout(fyne.NewSize(100, 50))
	if math.Abs(ic.GetZoom()-2*fitMargin) > 1e-6 {
		t.Error("zoom changed with fit disabled")
	}
}
