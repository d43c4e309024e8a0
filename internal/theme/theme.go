// Package theme picks the display palette from ambient light.
package theme

import (
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/render"
)

// DefaultThreshold is the lux level at or below which the dark theme is used.
const DefaultThreshold = 300

// Theme is the display color scheme.
type Theme int

// Themes.
const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Palette is the three color set a theme drives.
type Palette struct {
	Background domain.RGB
	Foreground domain.RGB
	Accent     domain.RGB
}

// Select returns Dark when lux is at or below the default threshold.
func Select(lux int) Theme {
	return SelectWithThreshold(lux, DefaultThreshold)
}

// SelectWithThreshold returns Dark when lux is at or below threshold.
func SelectWithThreshold(lux, threshold int) Theme {
	if lux <= threshold {
		return Dark
	}
	return Light
}

// PaletteFor returns the palette of a theme.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return Palette{
			Background: render.ColorBlack,
			Foreground: render.ColorWhite,
			Accent:     render.ColorYellow,
		}
	}
	return Palette{
		Background: render.ColorWhite,
		Foreground: render.ColorBlack,
		Accent:     render.ColorGray,
	}
}

// Icon returns the center glyph shown for a theme.
func (t Theme) Icon() string {
	if t == Dark {
		return "☽"
	}
	return "☀"
}
