package render

import (
	"strings"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/surface"
)

// Canvas draws surface primitives into a frame buffer.
type Canvas struct {
	frame     *domain.Frame
	cursorX   int
	cursorY   int
	textColor domain.RGB
	textSize  int
}

// NewCanvas creates a black canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		frame:     domain.NewFrame(width, height),
		textColor: ColorWhite,
		textSize:  1,
	}
}

// Frame returns the live frame buffer.
func (c *Canvas) Frame() *domain.Frame {
	return c.frame
}

// Snapshot returns a copy of the current frame.
func (c *Canvas) Snapshot() *domain.Frame {
	return c.frame.Clone()
}

func (c *Canvas) FillScreen(color domain.RGB) {
	c.frame.Fill(color)
}

func (c *Canvas) FillCircle(x, y, r int, color domain.RGB) {
	c.frame.FillCircle(x, y, r, color)
}

func (c *Canvas) DrawCircle(x, y, r int, color domain.RGB) {
	c.frame.DrawCircle(x, y, r, color)
}

func (c *Canvas) DrawPixel(x, y int, color domain.RGB) {
	c.frame.SetPixel(x, y, color)
}

func (c *Canvas) SetCursor(x, y int) {
	c.cursorX = x
	c.cursorY = y
}

func (c *Canvas) SetTextColor(color domain.RGB) {
	c.textColor = color
}

func (c *Canvas) SetTextSize(size int) {
	if size < 1 {
		size = 1
	}
	c.textSize = size
}

// Print draws text at the cursor and advances it one glyph cell per rune.
// A newline returns the cursor to column 0 of the next text row.
func (c *Canvas) Print(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			c.cursorX = 0
			c.cursorY += (CharHeight + 1) * c.textSize
		}
		if line == "" {
			continue
		}
		DrawTextScaled(c.frame, line, c.cursorX, c.cursorY, c.textColor, c.textSize)
		c.cursorX += (MeasureText(line) + CharSpacing) * c.textSize
	}
}

var _ surface.Surface = (*Canvas)(nil)
