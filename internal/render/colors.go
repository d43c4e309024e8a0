package render

import "github.com/jwulff/roundel/internal/domain"

// Panel colors, expanded from the ST77XX 16-bit palette.
var (
	ColorBlack  = domain.FromRGB565(0x0000)
	ColorWhite  = domain.FromRGB565(0xFFFF)
	ColorRed    = domain.FromRGB565(0xF800)
	ColorGreen  = domain.FromRGB565(0x07E0)
	ColorBlue   = domain.FromRGB565(0x001F)
	ColorYellow = domain.FromRGB565(0xFFE0)
	ColorGray   = domain.FromRGB565(0x7BEF)
	ColorOrange = domain.FromRGB565(0xFD20)

	// Weather colors
	ColorSunlight = domain.NewRGB(255, 200, 50)
	ColorRain     = domain.NewRGB(80, 140, 255)
)

// LerpColor linearly interpolates between two colors.
func LerpColor(a, b domain.RGB, t float64) domain.RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return domain.NewRGB(
		uint8(float64(a.R)+t*float64(int(b.R)-int(a.R))),
		uint8(float64(a.G)+t*float64(int(b.G)-int(a.G))),
		uint8(float64(a.B)+t*float64(int(b.B)-int(a.B))),
	)
}
