// Package colorutil provides shared color utilities for overlay styling.
package colorutil

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Common overlay colors used throughout the application.
var (
	Black     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Gold      = color.NRGBA{R: 0xFF, G: 0xD5, B: 0x4F, A: 255}
	SkyBlue   = color.NRGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 255}
	NightSky  = color.NRGBA{R: 0x0B, G: 0x10, B: 0x22, A: 255}
	DimSilver = color.NRGBA{R: 0xB0, G: 0xB8, B: 0xC8, A: 255}
)

// WithOpacity returns c with its alpha set to opacity (clamped to 0..1).
// Colors are non-premultiplied so the RGB channels are left untouched.
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(opacity) * 255))
	return c
}

// Opacity returns the alpha channel of c as a fraction.
func Opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

// ParseHex parses "#rgb" or "#rrggbb" and applies the given opacity.
func ParseHex(hex string, opacity float64) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return WithOpacity(color.NRGBA{R: r, G: g, B: b}, opacity), nil
}

// Hex formats the RGB channels of c as "#rrggbb".
func Hex(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// Floats returns the channels of c as 0..1 values, alpha last.
func Floats(c color.NRGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
