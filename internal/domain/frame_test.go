package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRGB(t *testing.T) {
	rgb := NewRGB(255, 128, 64)
	assert.Equal(t, uint8(255), rgb.R)
	assert.Equal(t, uint8(128), rgb.G)
	assert.Equal(t, uint8(64), rgb.B)
}

func TestRGBEquals(t *testing.T) {
	rgb1 := NewRGB(100, 150, 200)
	rgb2 := NewRGB(100, 150, 200)
	rgb3 := NewRGB(100, 150, 201)

	assert.True(t, rgb1.Equals(rgb2))
	assert.False(t, rgb1.Equals(rgb3))
}

func TestRGBString(t *testing.T) {
	rgb := NewRGB(255, 128, 64)
	assert.Equal(t, "RGB(255, 128, 64)", rgb.String())
}

func TestNewFrame(t *testing.T) {
	frame := NewFrame(64, 64)

	assert.Equal(t, 64, frame.Width)
	assert.Equal(t, 64, frame.Height)
	assert.Equal(t, 64*64*BytesPerPixel, len(frame.Pixels))
}

func TestFrameFill(t *testing.T) {
	red := NewRGB(255, 0, 0)
	frame := NewFrame(8, 8)
	frame.Fill(red)

	assert.Equal(t, 8, frame.Width)
	assert.Equal(t, 8, frame.Height)

	// Check all pixels are red
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pixel := frame.GetPixel(x, y)
			require.NotNil(t, pixel)
			assert.True(t, pixel.Equals(red), "Pixel at (%d, %d) should be red", x, y)
		}
	}
}

func TestFrameSetGetPixel(t *testing.T) {
	frame := NewFrame(8, 8)
	blue := NewRGB(0, 0, 255)

	frame.SetPixel(3, 5, blue)
	pixel := frame.GetPixel(3, 5)

	require.NotNil(t, pixel)
	assert.True(t, pixel.Equals(blue))
}

func TestFrameSetPixelOutOfBounds(t *testing.T) {
	frame := NewFrame(8, 8)
	blue := NewRGB(0, 0, 255)

	// Should not panic, silently ignore out of bounds
	frame.SetPixel(-1, 0, blue)
	frame.SetPixel(0, -1, blue)
	frame.SetPixel(8, 0, blue)
	frame.SetPixel(0, 8, blue)
	frame.SetPixel(100, 100, blue)
}

func TestFrameGetPixelOutOfBounds(t *testing.T) {
	frame := NewFrame(8, 8)

	assert.Nil(t, frame.GetPixel(-1, 0))
	assert.Nil(t, frame.GetPixel(0, -1))
	assert.Nil(t, frame.GetPixel(8, 0))
	assert.Nil(t, frame.GetPixel(0, 8))
	assert.Nil(t, frame.GetPixel(100, 100))
}

func TestFrameFillSmall(t *testing.T) {
	frame := NewFrame(4, 4)
	green := NewRGB(0, 255, 0)

	frame.Fill(green)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pixel := frame.GetPixel(x, y)
			require.NotNil(t, pixel)
			assert.True(t, pixel.Equals(green), "Pixel at (%d, %d) should be green", x, y)
		}
	}
}

func TestFrameClone(t *testing.T) {
	red := NewRGB(255, 0, 0)
	original := NewFrame(4, 4)
	original.Fill(red)

	clone := original.Clone()

	// Verify clone has same dimensions and pixels
	assert.Equal(t, original.Width, clone.Width)
	assert.Equal(t, original.Height, clone.Height)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			origPixel := original.GetPixel(x, y)
			clonePixel := clone.GetPixel(x, y)
			require.NotNil(t, clonePixel)
			assert.True(t, origPixel.Equals(*clonePixel))
		}
	}

	// Modify clone, verify original unchanged
	blue := NewRGB(0, 0, 255)
	clone.SetPixel(0, 0, blue)

	origPixel := original.GetPixel(0, 0)
	require.NotNil(t, origPixel)
	assert.True(t, origPixel.Equals(red), "Original should be unchanged after modifying clone")
}

func TestFrameFillRect(t *testing.T) {
	frame := NewFrame(10, 10)
	yellow := NewRGB(255, 255, 0)

	frame.FillRect(1, 1, 3, 2, yellow)

	// Check filled area
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 3; x++ {
			assert.True(t, frame.GetPixel(x, y).Equals(yellow), "Pixel at (%d, %d) should be yellow", x, y)
		}
	}

	// Check outside area is still black
	black := NewRGB(0, 0, 0)
	assert.True(t, frame.GetPixel(0, 0).Equals(black))
	assert.True(t, frame.GetPixel(4, 1).Equals(black))
}

func TestFrameFillCircle(t *testing.T) {
	frame := NewFrame(11, 11)
	red := NewRGB(255, 0, 0)

	frame.FillCircle(5, 5, 2, red)

	assert.True(t, frame.GetPixel(5, 5).Equals(red))
	assert.True(t, frame.GetPixel(7, 5).Equals(red))
	assert.True(t, frame.GetPixel(5, 3).Equals(red))
	assert.True(t, frame.GetPixel(6, 6).Equals(red))

	// Corner of the bounding box is outside the disc
	black := NewRGB(0, 0, 0)
	assert.True(t, frame.GetPixel(7, 7).Equals(black))
}

func TestFrameFillCircleNegativeRadius(t *testing.T) {
	frame := NewFrame(4, 4)
	frame.FillCircle(2, 2, -1, NewRGB(255, 0, 0))

	assert.True(t, frame.GetPixel(2, 2).Equals(NewRGB(0, 0, 0)))
}

func TestFrameDrawCircle(t *testing.T) {
	frame := NewFrame(11, 11)
	white := NewRGB(255, 255, 255)

	frame.DrawCircle(5, 5, 3, white)

	assert.True(t, frame.GetPixel(8, 5).Equals(white))
	assert.True(t, frame.GetPixel(2, 5).Equals(white))
	assert.True(t, frame.GetPixel(5, 8).Equals(white))
	assert.True(t, frame.GetPixel(5, 2).Equals(white))

	// Outline only
	assert.True(t, frame.GetPixel(5, 5).Equals(NewRGB(0, 0, 0)))
}

func TestFrameDrawCircleClipped(t *testing.T) {
	frame := NewFrame(4, 4)

	// Should not panic when the circle leaves the frame
	frame.DrawCircle(0, 0, 10, NewRGB(255, 255, 255))
	frame.FillCircle(0, 0, 10, NewRGB(255, 255, 255))
}

func TestRGB565(t *testing.T) {
	assert.Equal(t, NewRGB(255, 255, 255), FromRGB565(0xFFFF))
	assert.Equal(t, NewRGB(0, 0, 0), FromRGB565(0x0000))
	assert.Equal(t, NewRGB(255, 255, 0), FromRGB565(0xFFE0))
	assert.Equal(t, NewRGB(255, 166, 0), FromRGB565(0xFD20))
	assert.Equal(t, NewRGB(123, 125, 123), FromRGB565(0x7BEF))

	assert.Equal(t, uint16(0x7BEF), FromRGB565(0x7BEF).RGB565())
	assert.Equal(t, uint16(0xFD20), FromRGB565(0xFD20).RGB565())
}

func TestFrameImageRoundTrip(t *testing.T) {
	frame := NewFrame(3, 2)
	frame.SetPixel(2, 1, NewRGB(10, 20, 30))

	img := frame.ToImage()
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	back := FrameFromImage(img)
	assert.Equal(t, frame.Pixels, back.Pixels)
}

func TestDisplaySize(t *testing.T) {
	assert.Equal(t, 240, DisplaySize)
}

func TestBytesPerPixel(t *testing.T) {
	assert.Equal(t, 3, BytesPerPixel)
}
