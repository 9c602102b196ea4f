// Package image provides photograph loading for the overlay renderer: the
// decoded Layer, the fetchers that retrieve it, and the Loader state machine
// that applies the fallback path on failure.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Layer is a decoded photograph together with the path it was loaded from.
type Layer struct {
	Path   string      // Path that produced the image (the fallback path if one was used)
	Image  image.Image // Decoded image data
	Format string      // Decoder name reported by image.Decode, if known
}

// NewLayer wraps a decoded image.
func NewLayer(path string, img image.Image) *Layer {
	return &Layer{Path: path, Image: img}
}

// Decode decodes an image from r using the registered decoders.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Load loads an image from a local file and returns a Layer.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := Decode(file)
	if err != nil {
		return nil, err
	}

	layer := NewLayer(path, img)
	layer.Format = format
	return layer, nil
}

// Width returns the native image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the native image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}
