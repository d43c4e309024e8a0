package radial

import (
	"testing"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestElementsAppendTruncates(t *testing.T) {
	els := NewElements(3)
	for i := 0; i < 3; i++ {
		assert.True(t, els.Append(TextElement(0, "x", domain.RGB{})))
	}

	assert.False(t, els.Append(TextElement(0, "overflow", domain.RGB{})))
	assert.Equal(t, 3, els.Len())
	assert.Equal(t, 3, els.Cap())
}

func TestElementsZeroValueUnbounded(t *testing.T) {
	var els Elements
	for i := 0; i < 10; i++ {
		assert.True(t, els.Append(Element{}))
	}
	assert.Equal(t, 10, els.Len())
}

func TestRingSpan(t *testing.T) {
	assert.Equal(t, 360.0, Ring{StartAngle: 0, EndAngle: 360}.Span())
	assert.Equal(t, 360.0, Ring{StartAngle: 90, EndAngle: 90}.Span())
	assert.Equal(t, 360.0, Ring{StartAngle: 180, EndAngle: 90}.Span())
	assert.Equal(t, 90.0, Ring{StartAngle: 0, EndAngle: 90}.Span())
}

func TestRingElementAngleAutoSpacing(t *testing.T) {
	ring := DotRing(50, 0, 360,
		Element{Angle: 999}, Element{Angle: 999}, Element{Angle: 999}, Element{Angle: 999})

	for i := 0; i < 4; i++ {
		assert.Equal(t, float64(i)*90, ring.ElementAngle(i))
	}
}

func TestRingElementAngleFixed(t *testing.T) {
	ring := TextRing(45, 1, TextElement(270, "LIGHT", domain.RGB{}), TextElement(90, "300", domain.RGB{})).Fixed()

	assert.Equal(t, 270.0, ring.ElementAngle(0))
	assert.Equal(t, 90.0, ring.ElementAngle(1))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "circles", KindCircles.String())
	assert.Equal(t, "arcs", KindArcs.String())
	assert.Equal(t, "dots", KindDots.String())
	assert.Equal(t, "background", KindBackground.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
