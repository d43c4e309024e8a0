package mode

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
	"github.com/jwulff/roundel/internal/sensor"
	"github.com/jwulff/roundel/internal/theme"
)

// LightReader reads the ambient light level in lux.
type LightReader interface {
	ReadLightLevel(ctx context.Context) (int, error)
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Light LightReader

	// Threshold is the lux level at or below which the dark theme is used.
	Threshold int

	// Buttons overrides DefaultButtons.
	Buttons map[int]ID

	Logger zerolog.Logger
}

// Status is a snapshot of the controller for the API.
type Status struct {
	Mode      string    `json:"mode"`
	Theme     string    `json:"theme"`
	Lux       int       `json:"lux"`
	Switches  int       `json:"switches"`
	Modes     []string  `json:"modes"`
	StartedAt time.Time `json:"started_at"`
}

// Controller owns the active mode. All entry points serialize on one lock,
// so at most one render is in flight and an old mode's Exit returns before
// the new mode's Enter starts.
type Controller struct {
	light     LightReader
	threshold int
	buttons   map[int]ID
	logger    zerolog.Logger

	mu        sync.Mutex
	modes     map[ID]Mode
	active    Mode
	theme     theme.Theme
	lux       int
	switches  int
	startedAt time.Time
}

// NewController creates a controller over the given modes.
func NewController(cfg ControllerConfig, modes ...Mode) *Controller {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = theme.DefaultThreshold
	}
	buttons := cfg.Buttons
	if buttons == nil {
		buttons = DefaultButtons
	}

	c := &Controller{
		light:     cfg.Light,
		threshold: threshold,
		buttons:   buttons,
		logger:    cfg.Logger.With().Str("component", "controller").Logger(),
		modes:     make(map[ID]Mode),
		theme:     theme.Light,
	}
	for _, m := range modes {
		c.modes[m.ID()] = m
	}
	return c
}

// Start picks the initial theme and enters Ambient.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modes[Ambient]
	if !ok {
		return fmt.Errorf("start: %w", ErrModeUnavailable)
	}
	if lux, err := c.readLight(ctx); err == nil {
		c.theme = theme.SelectWithThreshold(lux, c.threshold)
	}
	c.startedAt = time.Now()
	c.activate(ctx, m)
	return nil
}

// HandleButton routes a button press. A press for the active mode toggles
// its sub-state; a press for another registered mode switches to it.
func (c *Controller) HandleButton(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.buttons[index]
	var m Mode
	if ok {
		m, ok = c.modes[id]
	}
	if !ok {
		metrics.ButtonEvents.WithLabelValues("ignored").Inc()
		c.logger.Warn().Int("button", index).Msg("mode not implemented")
		return fmt.Errorf("button %d: %w", index, ErrModeUnavailable)
	}

	if c.active == m {
		metrics.ButtonEvents.WithLabelValues("toggle").Inc()
		c.logger.Debug().Int("button", index).Str("mode", m.Name()).Msg("toggle")
		m.HandleButton(ctx, index)
		return nil
	}

	metrics.ButtonEvents.WithLabelValues("switch").Inc()
	c.activate(ctx, m)
	return nil
}

// Tick re-evaluates the theme and lets the active mode update.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return
	}

	lux, err := c.readLight(ctx)
	if err == nil {
		if t := theme.SelectWithThreshold(lux, c.threshold); t != c.theme {
			c.logger.Info().Str("theme", t.String()).Int("lux", lux).Msg("theme changed")
			c.theme = t
			c.active.SetTheme(t)
		}
	}
	if obs, ok := c.active.(LightObserver); ok && c.light != nil {
		obs.ObserveLight(lux, err)
	}

	c.active.Update(ctx)
}

// Run ticks at interval until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Active returns the active mode's ID and whether one is active.
func (c *Controller) Active() (ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return 0, false
	}
	return c.active.ID(), true
}

// Theme returns the current theme.
func (c *Controller) Theme() theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		Theme:     c.theme.String(),
		Lux:       c.lux,
		Switches:  c.switches,
		StartedAt: c.startedAt,
	}
	if c.active != nil {
		s.Mode = c.active.Name()
	}
	for _, m := range c.modes {
		s.Modes = append(s.Modes, m.Name())
	}
	sort.Strings(s.Modes)
	return s
}

// activate must be called with mu held.
func (c *Controller) activate(ctx context.Context, m Mode) {
	from := "none"
	if c.active != nil {
		from = c.active.Name()
		c.active.Exit()
		c.switches++
	}
	c.active = m
	metrics.ModeSwitches.WithLabelValues(m.Name()).Inc()
	c.logger.Info().Str("from", from).Str("to", m.Name()).Msg("mode switch")

	m.SetTheme(c.theme)
	m.Enter(ctx)
}

func (c *Controller) readLight(ctx context.Context) (int, error) {
	if c.light == nil {
		return 0, sensor.ErrUnavailable
	}
	lux, err := c.light.ReadLightLevel(ctx)
	if err != nil {
		metrics.SensorUnavailable.WithLabelValues(string(domain.MetricLight)).Inc()
		c.logger.Warn().Err(err).Msg("light level unavailable")
		return 0, err
	}
	c.lux = lux
	return lux, nil
}
