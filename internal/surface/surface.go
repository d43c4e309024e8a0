// Package surface defines the drawing primitives the layout engine renders through.
package surface

import "github.com/jwulff/roundel/internal/domain"

// Surface is a pixel-addressable drawing target with a text cursor.
type Surface interface {
	FillScreen(c domain.RGB)
	FillCircle(x, y, r int, c domain.RGB)
	DrawCircle(x, y, r int, c domain.RGB)
	DrawPixel(x, y int, c domain.RGB)
	SetCursor(x, y int)
	SetTextColor(c domain.RGB)
	SetTextSize(size int)
	Print(text string)
}
