package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Default GPIO timing.
const (
	DefaultDebounce = 200 * time.Millisecond
	edgePoll        = 100 * time.Millisecond
)

// GPIOButtons watches active-low push buttons. The pin at position i is
// button i.
type GPIOButtons struct {
	pins     []gpio.PinIn
	debounce time.Duration
	logger   zerolog.Logger
}

// NewGPIOButtons creates a source over already opened pins.
func NewGPIOButtons(pins []gpio.PinIn, debounce time.Duration, logger zerolog.Logger) *GPIOButtons {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &GPIOButtons{
		pins:     pins,
		debounce: debounce,
		logger:   logger.With().Str("component", "gpio_buttons").Logger(),
	}
}

// OpenGPIOButtons initializes the host drivers and looks up pins by name.
func OpenGPIOButtons(names []string, logger zerolog.Logger) (*GPIOButtons, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}
	pins := make([]gpio.PinIn, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("failed to find gpio pin %q", name)
		}
		pins = append(pins, p)
	}
	return NewGPIOButtons(pins, DefaultDebounce, logger), nil
}

func (g *GPIOButtons) Name() string { return "gpio" }

// Run configures every pin for falling edges and blocks until ctx is done.
func (g *GPIOButtons) Run(ctx context.Context, h Handler) error {
	for i, p := range g.pins {
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("failed to configure button %d (%s): %w", i, p, err)
		}
	}

	var wg sync.WaitGroup
	for i, p := range g.pins {
		wg.Add(1)
		go func(idx int, pin gpio.PinIn) {
			defer wg.Done()
			g.watch(ctx, idx, pin, h)
		}(i, p)
	}
	wg.Wait()
	return nil
}

func (g *GPIOButtons) watch(ctx context.Context, idx int, pin gpio.PinIn, h Handler) {
	var last time.Time
	for ctx.Err() == nil {
		if !pin.WaitForEdge(edgePoll) {
			continue
		}
		now := time.Now()
		if now.Sub(last) < g.debounce {
			continue
		}
		last = now

		g.logger.Debug().Int("button", idx).Str("pin", pin.String()).Msg("button pressed")
		if err := h.HandleButton(ctx, idx); err != nil {
			g.logger.Warn().Err(err).Int("button", idx).Msg("button not handled")
		}
	}
}
