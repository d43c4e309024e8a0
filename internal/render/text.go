package render

import "github.com/jwulff/roundel/internal/domain"

// DrawTextScaled draws text with every font pixel expanded to a size x size block.
func DrawTextScaled(frame *domain.Frame, text string, x, y int, color domain.RGB, size int) {
	if size < 1 {
		size = 1
	}
	currentX := x
	for _, char := range text {
		DrawCharScaled(frame, char, currentX, y, color, size)
		currentX += (CharWidth + CharSpacing) * size
	}
}

// DrawCharScaled draws a single character magnified by size.
func DrawCharScaled(frame *domain.Frame, char rune, x, y int, color domain.RGB, size int) {
	bitmap := GetCharBitmap(char)

	for row := 0; row < CharHeight; row++ {
		for col := 0; col < CharWidth; col++ {
			if !HasBitSet(bitmap[row], col) {
				continue
			}
			if size == 1 {
				frame.SetPixel(x+col, y+row, color)
				continue
			}
			frame.FillRect(x+col*size, y+row*size, size, size, color)
		}
	}
}
