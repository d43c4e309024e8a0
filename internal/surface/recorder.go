package surface

import (
	"fmt"
	"strings"

	"github.com/jwulff/roundel/internal/domain"
)

// Op identifies a recorded primitive.
type Op string

// Recorded primitives.
const (
	OpFillScreen   Op = "fillScreen"
	OpFillCircle   Op = "fillCircle"
	OpDrawCircle   Op = "drawCircle"
	OpDrawPixel    Op = "drawPixel"
	OpSetCursor    Op = "setCursor"
	OpSetTextColor Op = "setTextColor"
	OpSetTextSize  Op = "setTextSize"
	OpPrint        Op = "print"
)

// Call is one primitive invocation.
type Call struct {
	Op    Op
	X, Y  int
	R     int
	Size  int
	Color domain.RGB
	Text  string
}

func (c Call) String() string {
	switch c.Op {
	case OpFillScreen, OpSetTextColor:
		return fmt.Sprintf("%s %s", c.Op, c.Color)
	case OpFillCircle, OpDrawCircle:
		return fmt.Sprintf("%s (%d,%d) r=%d %s", c.Op, c.X, c.Y, c.R, c.Color)
	case OpDrawPixel:
		return fmt.Sprintf("%s (%d,%d) %s", c.Op, c.X, c.Y, c.Color)
	case OpSetCursor:
		return fmt.Sprintf("%s (%d,%d)", c.Op, c.X, c.Y)
	case OpSetTextSize:
		return fmt.Sprintf("%s %d", c.Op, c.Size)
	default:
		return fmt.Sprintf("%s %q", c.Op, c.Text)
	}
}

// Recorder is a Surface that records every call instead of drawing.
type Recorder struct {
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) FillScreen(c domain.RGB) {
	r.calls = append(r.calls, Call{Op: OpFillScreen, Color: c})
}

func (r *Recorder) FillCircle(x, y, radius int, c domain.RGB) {
	r.calls = append(r.calls, Call{Op: OpFillCircle, X: x, Y: y, R: radius, Color: c})
}

func (r *Recorder) DrawCircle(x, y, radius int, c domain.RGB) {
	r.calls = append(r.calls, Call{Op: OpDrawCircle, X: x, Y: y, R: radius, Color: c})
}

func (r *Recorder) DrawPixel(x, y int, c domain.RGB) {
	r.calls = append(r.calls, Call{Op: OpDrawPixel, X: x, Y: y, Color: c})
}

func (r *Recorder) SetCursor(x, y int) {
	r.calls = append(r.calls, Call{Op: OpSetCursor, X: x, Y: y})
}

func (r *Recorder) SetTextColor(c domain.RGB) {
	r.calls = append(r.calls, Call{Op: OpSetTextColor, Color: c})
}

func (r *Recorder) SetTextSize(size int) {
	r.calls = append(r.calls, Call{Op: OpSetTextSize, Size: size})
}

func (r *Recorder) Print(text string) {
	r.calls = append(r.calls, Call{Op: OpPrint, Text: text})
}

// Calls returns every recorded call in order.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Filter returns the recorded calls of a single kind.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Printed returns the text of every Print call.
func (r *Recorder) Printed() []string {
	var out []string
	for _, c := range r.Filter(OpPrint) {
		out = append(out, c.Text)
	}
	return out
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.calls = nil
}

// String renders the call log one call per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.calls {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

var _ Surface = (*Recorder)(nil)
