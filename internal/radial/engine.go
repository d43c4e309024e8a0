package radial

import (
	"sort"
	"unicode/utf8"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/surface"
)

// Glyph metrics of the base font at text size 1.
const (
	GlyphWidth  = 6
	GlyphHeight = 8
)

// arcStep is the angular increment used to rasterize arcs.
const arcStep = 2.0

// Engine draws layouts onto a surface.
type Engine struct {
	glyphWidth  int
	glyphHeight int
}

// NewEngine creates an engine for the base 6x8 glyph cell.
func NewEngine() *Engine {
	return &Engine{
		glyphWidth:  GlyphWidth,
		glyphHeight: GlyphHeight,
	}
}

// Render clears the surface and draws every ring from the largest radius
// to the smallest, then the center medallion if any.
func (e *Engine) Render(s surface.Surface, l Layout) {
	s.FillScreen(l.Background)

	rings := make([]Ring, len(l.Rings))
	copy(rings, l.Rings)
	sort.SliceStable(rings, func(i, j int) bool {
		return rings[i].Radius > rings[j].Radius
	})

	for _, ring := range rings {
		e.drawRing(s, l.CenterX, l.CenterY, ring, l.Background)
	}

	if c := l.Center; c != nil {
		e.RenderCenter(s, l.CenterX, l.CenterY, *c)
	}
}

// RenderCenter draws a filled, outlined medallion with centered text.
func (e *Engine) RenderCenter(s surface.Surface, cx, cy int, c Center) {
	s.FillCircle(cx, cy, c.Radius, c.Background)
	s.DrawCircle(cx, cy, c.Radius, c.Foreground)
	if c.Text == "" {
		return
	}
	s.SetTextColor(c.Foreground)
	e.printCentered(s, cx, cy, c.Text, c.TextSize)
}

// RenderMessage clears the surface and prints a single centered line.
func (e *Engine) RenderMessage(s surface.Surface, cx, cy int, text string, bg, fg domain.RGB, size int) {
	s.FillScreen(bg)
	s.SetTextColor(fg)
	e.printCentered(s, cx, cy, text, size)
}

func (e *Engine) drawRing(s surface.Surface, cx, cy int, ring Ring, clear domain.RGB) {
	if ring.Radius < 0 {
		ring.Radius = 0
	}
	e.drawBackground(s, cx, cy, ring, clear)

	if ring.Elements.Len() == 0 {
		return
	}

	switch ring.Kind {
	case KindText:
		e.drawText(s, cx, cy, ring)
	case KindCircles:
		e.drawCircles(s, cx, cy, ring)
	case KindArcs:
		e.drawArcs(s, cx, cy, ring)
	case KindDots:
		e.drawDots(s, cx, cy, ring)
	case KindBackground:
	}
}

func (e *Engine) drawBackground(s surface.Surface, cx, cy int, ring Ring, clear domain.RGB) {
	if ring.Thickness > 0 {
		half := ring.Thickness / 2
		s.FillCircle(cx, cy, ring.Radius+half, ring.Background)
		if ring.Radius > half {
			s.FillCircle(cx, cy, ring.Radius-half, clear)
		}
	}
	for i := 0; i < ring.BorderWidth; i++ {
		s.DrawCircle(cx, cy, ring.Radius+i, ring.Border)
	}
}

func (e *Engine) drawText(s surface.Surface, cx, cy int, ring Ring) {
	size := textSize(ring.TextSize)
	s.SetTextSize(size)
	for i, el := range ring.Elements.Items() {
		if !el.Visible {
			continue
		}
		x, y := PositionOnRing(cx, cy, ring.Radius, ring.ElementAngle(i))
		s.SetTextColor(el.Color)
		e.printAt(s, x, y, el.Content, size)
	}
}

func (e *Engine) drawCircles(s surface.Surface, cx, cy int, ring Ring) {
	for i, el := range ring.Elements.Items() {
		if !el.Visible {
			continue
		}
		x, y := PositionOnRing(cx, cy, ring.Radius, ring.ElementAngle(i))
		r := el.Size
		if r <= 0 {
			r = DefaultCircleSize
		}
		s.FillCircle(x, y, r, el.Color)
		if ring.BorderWidth > 0 {
			s.DrawCircle(x, y, r, ring.Border)
		}
		if el.Content != "" {
			s.SetTextColor(ring.Border)
			e.printCentered(s, x, y, el.Content, ring.TextSize)
		}
	}
}

func (e *Engine) drawArcs(s surface.Surface, cx, cy int, ring Ring) {
	for _, el := range ring.Elements.Items() {
		if !el.Visible {
			continue
		}
		start := el.Angle - float64(el.Size/2)
		end := el.Angle + float64(el.Size/2)
		for a := start; a <= end; a += arcStep {
			x, y := PositionOnRing(cx, cy, ring.Radius, a)
			s.DrawPixel(x, y, el.Color)
			for t := 1; t < ring.Thickness; t++ {
				x2, y2 := PositionOnRing(cx, cy, ring.Radius+t, a)
				s.DrawPixel(x2, y2, el.Color)
			}
		}
	}
}

func (e *Engine) drawDots(s surface.Surface, cx, cy int, ring Ring) {
	for i, el := range ring.Elements.Items() {
		if !el.Visible {
			continue
		}
		x, y := PositionOnRing(cx, cy, ring.Radius, ring.ElementAngle(i))
		r := el.Size
		if r <= 0 {
			r = DefaultDotSize
		}
		s.FillCircle(x, y, r, el.Color)
	}
}

func (e *Engine) printCentered(s surface.Surface, x, y int, text string, size int) {
	size = textSize(size)
	s.SetTextSize(size)
	e.printAt(s, x, y, text, size)
}

// printAt places the cursor so text of the given size is centered on (x, y).
func (e *Engine) printAt(s surface.Surface, x, y int, text string, size int) {
	width := utf8.RuneCountInString(text) * e.glyphWidth * size
	height := e.glyphHeight * size
	s.SetCursor(x-width/2, y-height/2)
	s.Print(text)
}

func textSize(size int) int {
	if size <= 0 {
		return 1
	}
	return size
}
