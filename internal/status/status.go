// Package status drives the two status LEDs: L1 shows connectivity and L2
// shows whether the external feeds are delivering data.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/render"
)

// LED identifies a status LED.
type LED int

const (
	L1 LED = iota
	L2
)

func (l LED) String() string {
	if l == L2 {
		return "l2"
	}
	return "l1"
}

// Connectivity is the network state shown on L1.
type Connectivity int

const (
	Disconnected Connectivity = iota
	Connecting
	Connected
)

// Data is the feed state shown on L2.
type Data int

const (
	DataError Data = iota
	DataLoading
	DataSuccess
)

// Transition tuning.
const (
	DefaultInterval = 50 * time.Millisecond
	Smoothing       = 0.1
	pushThreshold   = 5
)

// Status colors.
var (
	ColorError   = domain.NewRGB(255, 0, 0)
	ColorLoading = domain.NewRGB(255, 255, 0)
	ColorSuccess = domain.NewRGB(0, 255, 0)
)

// Output sets the physical (or remote) LED color.
type Output interface {
	SetLED(ctx context.Context, led LED, c domain.RGB) error
}

// Manager eases each LED toward its target color and pushes visible changes
// to the output.
type Manager struct {
	out    Output
	logger zerolog.Logger

	mu      sync.Mutex
	current [2]domain.RGB
	target  [2]domain.RGB
	pushed  [2]domain.RGB
	primed  [2]bool
}

// NewManager creates a manager with both LEDs off, easing toward loading.
func NewManager(out Output, logger zerolog.Logger) *Manager {
	m := &Manager{
		out:    out,
		logger: logger.With().Str("component", "status_leds").Logger(),
	}
	m.target[L1] = ColorLoading
	m.target[L2] = ColorLoading
	return m
}

// SetConnectivity sets L1's target color.
func (m *Manager) SetConnectivity(c Connectivity) {
	m.setTarget(L1, colorFor(int(c)))
}

// SetData sets L2's target color.
func (m *Manager) SetData(d Data) {
	m.setTarget(L2, colorFor(int(d)))
}

// ObserveRefresh maps a feed refresh outcome onto L2.
func (m *Manager) ObserveRefresh(ok bool) {
	if ok {
		m.SetData(DataSuccess)
		return
	}
	m.SetData(DataError)
}

// Target returns the color an LED is easing toward.
func (m *Manager) Target(led LED) domain.RGB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target[led]
}

// Current returns an LED's present color.
func (m *Manager) Current(led LED) domain.RGB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current[led]
}

// Update advances both LEDs one step toward their targets.
func (m *Manager) Update(ctx context.Context) {
	m.mu.Lock()
	var pending []LED
	for _, led := range []LED{L1, L2} {
		m.current[led] = render.LerpColor(m.current[led], m.target[led], Smoothing)
		if !m.primed[led] || visiblyDifferent(m.current[led], m.pushed[led]) {
			m.pushed[led] = m.current[led]
			m.primed[led] = true
			pending = append(pending, led)
		}
	}
	colors := m.current
	m.mu.Unlock()

	if m.out == nil {
		return
	}
	for _, led := range pending {
		if err := m.out.SetLED(ctx, led, colors[led]); err != nil {
			m.logger.Debug().Err(err).Str("led", led.String()).Msg("failed to set led")
		}
	}
}

// Run updates at interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Update(ctx)
		}
	}
}

func (m *Manager) setTarget(led LED, c domain.RGB) {
	m.mu.Lock()
	m.target[led] = c
	m.mu.Unlock()
}

func colorFor(level int) domain.RGB {
	switch level {
	case 0:
		return ColorError
	case 1:
		return ColorLoading
	default:
		return ColorSuccess
	}
}

func visiblyDifferent(a, b domain.RGB) bool {
	return absDiff(a.R, b.R) > pushThreshold ||
		absDiff(a.G, b.G) > pushThreshold ||
		absDiff(a.B, b.B) > pushThreshold
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// DefaultTopic is the topic prefix LED colors are published under.
const DefaultTopic = "roundel/status"

// Publisher is the MQTT client surface used for LED output.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTOutput publishes LED colors as JSON to <prefix>/<led>.
type MQTTOutput struct {
	pub    Publisher
	prefix string
}

// NewMQTTOutput creates an MQTT LED output.
func NewMQTTOutput(pub Publisher, prefix string) *MQTTOutput {
	if prefix == "" {
		prefix = DefaultTopic
	}
	return &MQTTOutput{pub: pub, prefix: prefix}
}

type ledMessage struct {
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	Hex string `json:"hex"`
}

func (o *MQTTOutput) SetLED(ctx context.Context, led LED, c domain.RGB) error {
	payload, err := json.Marshal(ledMessage{R: c.R, G: c.G, B: c.B, Hex: fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)})
	if err != nil {
		return err
	}
	if err := o.pub.Publish(o.prefix+"/"+led.String(), payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", led, err)
	}
	return nil
}

// LogOutput writes LED changes to the log when no broker is configured.
type LogOutput struct {
	Logger zerolog.Logger
}

func (o LogOutput) SetLED(ctx context.Context, led LED, c domain.RGB) error {
	o.Logger.Debug().Str("led", led.String()).Str("color", c.String()).Msg("status led")
	return nil
}
