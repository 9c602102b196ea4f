package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"constellation-viewer/pkg/colorutil"
)

// NightSkyTheme is a dark theme that keeps the photograph the brightest
// thing on screen.
type NightSkyTheme struct{}

var _ fyne.Theme = (*NightSkyTheme)(nil)

func (t *NightSkyTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.SkyBlue
	case theme.ColorNameSelection:
		return colorutil.WithOpacity(colorutil.Gold, 0.5) // Matches the cluster highlight
	case theme.ColorNameBackground:
		return colorutil.NightSky
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // Visible gray scrollbar
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *NightSkyTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *NightSkyTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *NightSkyTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
