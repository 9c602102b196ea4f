// Package overlay draws constellation overlays onto a canvas sized to the
// photograph's native pixel dimensions.
package overlay

import (
	"image/color"

	"constellation-viewer/pkg/colorutil"
)

// Stroke describes how a line is painted.
type Stroke struct {
	Color color.NRGBA // Includes opacity in alpha
	Width float64     // Pixels
}

// Style holds the paint for each overlay layer.
type Style struct {
	Line       Stroke      // Every constellation line
	Highlight  Stroke      // Lines of the selected cluster
	StarColor  color.NRGBA // Star fill, opacity in alpha
	StarRadius float64     // Pixels
}

// Default overlay paint.
var (
	DefaultLine       = Stroke{Color: colorutil.WithOpacity(colorutil.White, 0.5), Width: 2}
	DefaultHighlight  = Stroke{Color: colorutil.WithOpacity(colorutil.Gold, 0.95), Width: 4}
	DefaultStarColor  = colorutil.WithOpacity(colorutil.White, 0.9)
	DefaultStarRadius = 3.0
)

// DefaultStyle returns the default overlay style.
func DefaultStyle() Style {
	return Style{
		Line:       DefaultLine,
		Highlight:  DefaultHighlight,
		StarColor:  DefaultStarColor,
		StarRadius: DefaultStarRadius,
	}
}

// withDefaults fills zero widths and radii.
func (s Style) withDefaults() Style {
	if s.Line.Width <= 0 {
		s.Line.Width = DefaultLine.Width
	}
	if s.Highlight.Width <= 0 {
		s.Highlight.Width = DefaultHighlight.Width
	}
	if s.StarRadius <= 0 {
		s.StarRadius = DefaultStarRadius
	}
	return s
}
