// Package domain contains core domain types for the roundel display.
package domain

import (
	"fmt"
	"image"
	"image/color"
)

// DisplaySize is the edge length of the round 240x240 panel.
const DisplaySize = 240

// BytesPerPixel is the number of bytes per pixel (RGB).
const BytesPerPixel = 3

// RGB represents an RGB color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// NewRGB creates a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// FromRGB565 expands a packed 5-6-5 panel color to 8-bit channels.
func FromRGB565(c uint16) RGB {
	r := uint8((c >> 11) & 0x1F)
	g := uint8((c >> 5) & 0x3F)
	b := uint8(c & 0x1F)
	return RGB{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
	}
}

// RGB565 packs the color into the panel's native 16-bit format.
func (c RGB) RGB565() uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// Equals checks if two RGB colors are equal.
func (c RGB) Equals(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the RGB color.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// Frame represents a single frame of pixel data.
type Frame struct {
	Width  int
	Height int
	// Pixels is a flat array of RGB values: [r0,g0,b0, r1,g1,b1, ...]
	Pixels []byte
}

// NewFrame creates a new frame filled with black (0, 0, 0).
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*BytesPerPixel),
	}
}

// SetPixel sets a single pixel in the frame. Out of bounds coordinates are silently ignored.
func (f *Frame) SetPixel(x, y int, color RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	offset := (y*f.Width + x) * BytesPerPixel
	f.Pixels[offset] = color.R
	f.Pixels[offset+1] = color.G
	f.Pixels[offset+2] = color.B
}

// GetPixel returns the color at the specified coordinates, or nil if out of bounds.
func (f *Frame) GetPixel(x, y int) *RGB {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return nil
	}
	offset := (y*f.Width + x) * BytesPerPixel
	return &RGB{
		R: f.Pixels[offset],
		G: f.Pixels[offset+1],
		B: f.Pixels[offset+2],
	}
}

// Fill fills the entire frame with the specified color.
func (f *Frame) Fill(color RGB) {
	for i := 0; i < f.Width*f.Height; i++ {
		offset := i * BytesPerPixel
		f.Pixels[offset] = color.R
		f.Pixels[offset+1] = color.G
		f.Pixels[offset+2] = color.B
	}
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pixels: make([]byte, len(f.Pixels)),
	}
	copy(clone.Pixels, f.Pixels)
	return clone
}

// FillRect fills a rectangular area with the specified color.
func (f *Frame) FillRect(x, y, width, height int, color RGB) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			f.SetPixel(x+dx, y+dy, color)
		}
	}
}

// FillCircle fills a disc of radius r centered on (cx, cy).
// A zero radius sets the center pixel; a negative radius draws nothing.
func (f *Frame) FillCircle(cx, cy, r int, color RGB) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				f.SetPixel(cx+dx, cy+dy, color)
			}
		}
	}
}

// DrawCircle draws a one pixel circle outline using the midpoint algorithm.
func (f *Frame) DrawCircle(cx, cy, r int, color RGB) {
	if r < 0 {
		return
	}
	if r == 0 {
		f.SetPixel(cx, cy, color)
		return
	}

	x := r
	y := 0
	err := 1 - r
	for x >= y {
		f.SetPixel(cx+x, cy+y, color)
		f.SetPixel(cx+y, cy+x, color)
		f.SetPixel(cx-y, cy+x, color)
		f.SetPixel(cx-x, cy+y, color)
		f.SetPixel(cx-x, cy-y, color)
		f.SetPixel(cx-y, cy-x, color)
		f.SetPixel(cx+y, cy-x, color)
		f.SetPixel(cx+x, cy-y, color)

		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// ToImage copies the frame into an image.RGBA for encoding and scaling.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			offset := (y*f.Width + x) * BytesPerPixel
			img.SetRGBA(x, y, color.RGBA{
				R: f.Pixels[offset],
				G: f.Pixels[offset+1],
				B: f.Pixels[offset+2],
				A: 0xFF,
			})
		}
	}
	return img
}

// FrameFromImage converts any image into a frame of the same bounds.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			f.SetPixel(x, y, RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}
	return f
}
