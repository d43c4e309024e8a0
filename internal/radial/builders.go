package radial

import "github.com/jwulff/roundel/internal/domain"

// TextElement creates a visible text label.
func TextElement(angle float64, text string, color domain.RGB) Element {
	return Element{
		Angle:   angle,
		Content: text,
		Color:   color,
		Visible: true,
	}
}

// CircleElement creates a visible filled circle with optional label.
func CircleElement(angle float64, content string, color domain.RGB, size int) Element {
	return Element{
		Angle:   angle,
		Content: content,
		Color:   color,
		Visible: true,
		Size:    size,
	}
}

// ArcElement creates an arc centered on angle spanning width degrees.
func ArcElement(angle float64, width int, color domain.RGB) Element {
	return Element{
		Angle:   angle,
		Color:   color,
		Visible: true,
		Size:    width,
	}
}

// TextRing creates an auto-spaced full circle text ring.
func TextRing(radius, textSize int, els ...Element) Ring {
	return Ring{
		Radius:      radius,
		Kind:        KindText,
		TextSize:    textSize,
		Elements:    ElementsOf(els...),
		AutoSpacing: true,
		StartAngle:  0,
		EndAngle:    360,
	}
}

// CircleRing creates an auto-spaced ring of labeled circles with a one
// pixel outline in border.
func CircleRing(radius int, fill, border domain.RGB, els ...Element) Ring {
	return Ring{
		Radius:      radius,
		Kind:        KindCircles,
		Background:  fill,
		Border:      border,
		BorderWidth: 1,
		TextSize:    1,
		Elements:    ElementsOf(els...),
		AutoSpacing: true,
		StartAngle:  0,
		EndAngle:    360,
	}
}

// ArcRing creates a ring of arcs drawn thickness pixels wide.
func ArcRing(radius, thickness int, els ...Element) Ring {
	return Ring{
		Radius:    radius,
		Thickness: thickness,
		Kind:      KindArcs,
		Elements:  ElementsOf(els...),
	}
}

// DotRing creates an auto-spaced ring of dots across the given span.
func DotRing(radius int, start, end float64, els ...Element) Ring {
	return Ring{
		Radius:      radius,
		Kind:        KindDots,
		Elements:    ElementsOf(els...),
		AutoSpacing: true,
		StartAngle:  start,
		EndAngle:    end,
	}
}

// Fixed returns a copy of the ring that uses each element's own angle.
func (r Ring) Fixed() Ring {
	r.AutoSpacing = false
	return r
}

// WithTextSize returns a copy of the ring with a new text size.
func (r Ring) WithTextSize(size int) Ring {
	r.TextSize = size
	return r
}
