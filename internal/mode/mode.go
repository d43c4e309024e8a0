// Package mode implements the display modes and the controller that
// switches between them.
package mode

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/theme"
)

// ErrModeUnavailable is returned for button presses that map to no
// registered mode.
var ErrModeUnavailable = errors.New("mode not implemented")

// ID identifies a mode.
type ID int

// Modes.
const (
	Ambient ID = iota
	Transit
	Weather
)

func (id ID) String() string {
	switch id {
	case Ambient:
		return "ambient"
	case Transit:
		return "transit"
	case Weather:
		return "weather"
	default:
		return fmt.Sprintf("mode(%d)", int(id))
	}
}

// DefaultButtons maps button indices to modes.
var DefaultButtons = map[int]ID{
	0: Ambient,
	1: Transit,
	2: Weather,
}

// Mode is a screen the controller can activate. Methods are only called by
// the controller, one at a time.
type Mode interface {
	ID() ID
	Name() string

	// Enter prepares the mode and renders its first frame.
	Enter(ctx context.Context)

	// Update re-reads data and redraws when it changed.
	Update(ctx context.Context)

	// Exit releases the mode; the next Enter starts from an unrendered state.
	Exit()

	// HandleButton toggles the mode's sub-state and redraws.
	HandleButton(ctx context.Context, index int)

	// SetTheme switches palette; the next Update redraws.
	SetTheme(t theme.Theme)
}

// LightObserver is a mode that shows the light level. The controller hands it
// each tick's reading before Update so the sensor is polled once per tick.
type LightObserver interface {
	ObserveLight(lux int, err error)
}

// Display is where modes draw.
type Display interface {
	Show(ctx context.Context, mode string, l radial.Layout)
	ShowMessage(ctx context.Context, mode string, m display.Message)
	Center() (int, int)
}

// NoDataText is shown when a mode has nothing to draw.
const NoDataText = "NO DATA"

// Unit is a temperature display unit.
type Unit int

// Units.
const (
	Celsius Unit = iota
	Fahrenheit
)

func (u Unit) String() string {
	if u == Fahrenheit {
		return "F"
	}
	return "C"
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Celsius {
		return Fahrenheit
	}
	return Celsius
}

// Convert converts a Celsius temperature to u.
func (u Unit) Convert(celsius float64) float64 {
	if u == Fahrenheit {
		return celsius*9.0/5.0 + 32.0
	}
	return celsius
}

// Format renders a temperature already in unit u, truncated toward zero.
func (u Unit) Format(v float64) string {
	return fmt.Sprintf("%d%s", int(v), u)
}

func noData(p theme.Palette) display.Message {
	return display.Message{
		Text:       NoDataText,
		Background: p.Background,
		Foreground: p.Foreground,
		TextSize:   2,
	}
}
