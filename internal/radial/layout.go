package radial

import "github.com/jwulff/roundel/internal/domain"

// Kind selects how a ring's elements are drawn.
type Kind int

// Ring kinds.
const (
	KindText Kind = iota
	KindCircles
	KindArcs
	KindDots
	KindBackground
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCircles:
		return "circles"
	case KindArcs:
		return "arcs"
	case KindDots:
		return "dots"
	case KindBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Default element sizes in pixels when Size is unset.
const (
	DefaultCircleSize = 15
	DefaultDotSize    = 3
)

// Element is a single item placed on a ring.
type Element struct {
	Angle   float64
	Content string
	Color   domain.RGB
	Visible bool
	// Size is the circle/dot radius, or the angular width for arcs.
	Size int
}

// Elements is an ordered element sequence with an optional capacity.
// The zero value is empty and unbounded.
type Elements struct {
	items    []Element
	capacity int
}

// NewElements creates a sequence that holds at most capacity elements.
func NewElements(capacity int) Elements {
	return Elements{
		items:    make([]Element, 0, max(capacity, 0)),
		capacity: capacity,
	}
}

// ElementsOf creates an unbounded sequence from the given elements.
func ElementsOf(els ...Element) Elements {
	return Elements{items: append([]Element(nil), els...)}
}

// Append adds an element. It returns false and drops the element when the
// sequence is full.
func (e *Elements) Append(el Element) bool {
	if e.capacity > 0 && len(e.items) >= e.capacity {
		return false
	}
	e.items = append(e.items, el)
	return true
}

// Len returns the number of elements.
func (e Elements) Len() int {
	return len(e.items)
}

// Cap returns the capacity, or 0 when unbounded.
func (e Elements) Cap() int {
	return e.capacity
}

// At returns the element at index i.
func (e Elements) At(i int) Element {
	return e.items[i]
}

// Items returns the elements in insertion order.
func (e Elements) Items() []Element {
	return e.items
}

// Ring is a concentric annulus of elements.
type Ring struct {
	Radius      int
	Thickness   int
	Background  domain.RGB
	Border      domain.RGB
	BorderWidth int
	TextSize    int
	Elements    Elements
	Kind        Kind
	StartAngle  float64
	EndAngle    float64
	AutoSpacing bool
}

// Span returns the angular span used for auto spacing.
// A zero or negative span means the full circle.
func (r Ring) Span() float64 {
	span := r.EndAngle - r.StartAngle
	if span <= 0 {
		return 360
	}
	return span
}

// ElementAngle returns the angle of the i-th element.
func (r Ring) ElementAngle(i int) float64 {
	if r.AutoSpacing {
		return r.StartAngle + float64(i)*r.Span()/float64(r.Elements.Len())
	}
	return r.Elements.At(i).Angle
}

// Center is a medallion drawn over the middle of a layout.
type Center struct {
	Radius     int
	Text       string
	Background domain.RGB
	Foreground domain.RGB
	TextSize   int
}

// Layout describes one complete frame.
type Layout struct {
	CenterX    int
	CenterY    int
	Background domain.RGB
	Rings      []Ring
	Center     *Center
}
