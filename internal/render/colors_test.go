package render

import (
	"testing"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPanelColors(t *testing.T) {
	assert.Equal(t, domain.NewRGB(0, 0, 0), ColorBlack)
	assert.Equal(t, domain.NewRGB(255, 255, 255), ColorWhite)
	assert.Equal(t, domain.NewRGB(255, 255, 0), ColorYellow)
	assert.Equal(t, uint16(0x7BEF), ColorGray.RGB565())
	assert.Equal(t, uint16(0xFD20), ColorOrange.RGB565())
}

func TestLerpColor(t *testing.T) {
	black := domain.NewRGB(0, 0, 0)
	white := domain.NewRGB(255, 255, 255)

	// At t=0, should return first color
	result := LerpColor(black, white, 0)
	assert.Equal(t, black, result)

	// At t=1, should return second color
	result = LerpColor(black, white, 1)
	assert.Equal(t, white, result)

	// At t=0.5, should return midpoint
	result = LerpColor(black, white, 0.5)
	assert.Equal(t, domain.NewRGB(127, 127, 127), result)
}

func TestLerpColorOutOfRange(t *testing.T) {
	red := domain.NewRGB(255, 0, 0)
	blue := domain.NewRGB(0, 0, 255)

	// t < 0 should clamp to first color
	result := LerpColor(red, blue, -0.5)
	assert.Equal(t, red, result)

	// t > 1 should clamp to second color
	result = LerpColor(red, blue, 1.5)
	assert.Equal(t, blue, result)
}
