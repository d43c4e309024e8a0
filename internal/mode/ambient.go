package mode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/change"
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/sensor"
	"github.com/jwulff/roundel/internal/theme"
)

// Ambient layout geometry.
const (
	ambientCenterRadius = 20
	ambientLightRadius  = 45
	ambientValueRadius  = 70
	ambientValueSize    = 18
	ambientLabelRadius  = 95
)

// HistoryRecorder stores sensor readings.
type HistoryRecorder interface {
	StoreReadings(ctx context.Context, readings []domain.Reading) error
}

// AmbientConfig configures the ambient readout.
type AmbientConfig struct {
	Sensor  sensor.Sensor
	Display Display
	History HistoryRecorder
	Logger  zerolog.Logger

	// Epsilons defaults to change.DefaultEpsilons.
	Epsilons change.Epsilons
}

// AmbientMode shows temperature, humidity and light from the local sensors.
// Its button toggles Celsius and Fahrenheit.
type AmbientMode struct {
	sensor  sensor.Sensor
	display Display
	history HistoryRecorder
	logger  zerolog.Logger

	unit      Unit
	theme     theme.Theme
	snapshot  *change.Snapshot
	lastLight int
	observed  *lightReading
	now       func() time.Time
}

// lightReading is a light level already polled by the controller.
type lightReading struct {
	lux int
	err error
}

// ambientSample is one round of sensor reads. Missing values are nil.
type ambientSample struct {
	temperature *float64
	humidity    *float64
	pressure    *float64
	light       int
}

// NewAmbient creates the ambient mode.
func NewAmbient(cfg AmbientConfig) *AmbientMode {
	eps := cfg.Epsilons
	if eps == nil {
		eps = change.DefaultEpsilons
	}
	return &AmbientMode{
		sensor:   cfg.Sensor,
		display:  cfg.Display,
		history:  cfg.History,
		logger:   cfg.Logger.With().Str("mode", Ambient.String()).Logger(),
		snapshot: change.NewSnapshot(eps),
		now:      time.Now,
	}
}

func (a *AmbientMode) ID() ID       { return Ambient }
func (a *AmbientMode) Name() string { return Ambient.String() }

// Unit returns the current temperature unit.
func (a *AmbientMode) Unit() Unit { return a.unit }

func (a *AmbientMode) Enter(ctx context.Context) {
	a.snapshot.Reset()
	a.Update(ctx)
}

func (a *AmbientMode) Update(ctx context.Context) {
	s := a.read(ctx)
	current := a.tracked(s)
	if !a.snapshot.ShouldRedraw(current) {
		metrics.RenderSkips.WithLabelValues(a.Name()).Inc()
		return
	}
	a.draw(ctx, s, current)
}

func (a *AmbientMode) Exit() {
	a.snapshot.Reset()
	a.observed = nil
}

func (a *AmbientMode) HandleButton(ctx context.Context, index int) {
	a.unit = a.unit.Toggle()
	a.logger.Info().Str("unit", a.unit.String()).Msg("temperature unit changed")
	s := a.read(ctx)
	a.draw(ctx, s, a.tracked(s))
}

// ObserveLight supplies the light level for the next Update.
func (a *AmbientMode) ObserveLight(lux int, err error) {
	a.observed = &lightReading{lux: lux, err: err}
}

func (a *AmbientMode) SetTheme(t theme.Theme) {
	a.theme = t
	a.snapshot.Reset()
}

func (a *AmbientMode) draw(ctx context.Context, s ambientSample, current change.Metrics) {
	a.display.Show(ctx, a.Name(), a.layout(s))
	a.snapshot.Commit(current)

	ev := a.logger.Debug().Str("unit", a.unit.String()).Int("light", s.light)
	if s.temperature != nil {
		ev = ev.Float64("temperature", a.unit.Convert(*s.temperature))
	}
	if s.humidity != nil {
		ev = ev.Float64("humidity", *s.humidity)
	}
	if s.pressure != nil {
		ev = ev.Float64("pressure_kpa", *s.pressure)
	}
	ev.Msg("ambient frame")

	a.record(ctx, s)
}

func (a *AmbientMode) read(ctx context.Context) ambientSample {
	var s ambientSample
	if v, err := a.sensor.ReadTemperature(ctx); err == nil {
		s.temperature = &v
	} else {
		a.unavailable(domain.MetricTemperature, err)
	}
	if v, err := a.sensor.ReadHumidity(ctx); err == nil {
		s.humidity = &v
	} else {
		a.unavailable(domain.MetricHumidity, err)
	}
	if v, err := a.sensor.ReadPressure(ctx); err == nil {
		s.pressure = &v
	} else {
		a.unavailable(domain.MetricPressure, err)
	}
	if obs := a.observed; obs != nil {
		a.observed = nil
		if obs.err == nil {
			a.lastLight = obs.lux
		}
	} else if lux, err := a.sensor.ReadLightLevel(ctx); err == nil {
		a.lastLight = lux
	} else {
		a.unavailable(domain.MetricLight, err)
	}
	s.light = a.lastLight
	return s
}

func (a *AmbientMode) unavailable(m domain.Metric, err error) {
	metrics.SensorUnavailable.WithLabelValues(string(m)).Inc()
	a.logger.Warn().Err(err).Str("metric", string(m)).Msg("sensor reading unavailable")
}

// tracked returns the change-detected values, with temperature in the display unit.
func (a *AmbientMode) tracked(s ambientSample) change.Metrics {
	m := change.Metrics{domain.MetricLight: float64(s.light)}
	if s.temperature != nil {
		m[domain.MetricTemperature] = a.unit.Convert(*s.temperature)
	}
	if s.humidity != nil {
		m[domain.MetricHumidity] = *s.humidity
	}
	return m
}

// layout builds the ambient frame for a sample.
func (a *AmbientMode) layout(s ambientSample) radial.Layout {
	p := theme.PaletteFor(a.theme)
	cx, cy := a.display.Center()

	temp := "--"
	if s.temperature != nil {
		temp = a.unit.Format(a.unit.Convert(*s.temperature))
	}
	humid := "--"
	if s.humidity != nil {
		humid = fmt.Sprintf("%d%%", int(*s.humidity))
	}

	return radial.Layout{
		CenterX:    cx,
		CenterY:    cy,
		Background: p.Background,
		Rings: []radial.Ring{
			radial.TextRing(ambientLightRadius, 1,
				radial.TextElement(270, "LIGHT", p.Foreground),
				radial.TextElement(90, fmt.Sprintf("%d", s.light), p.Accent),
			).Fixed(),
			radial.CircleRing(ambientValueRadius, p.Accent, p.Foreground,
				radial.CircleElement(0, temp, p.Accent, ambientValueSize),
				radial.CircleElement(180, humid, p.Accent, ambientValueSize),
			).Fixed(),
			radial.TextRing(ambientLabelRadius, 1,
				radial.TextElement(0, "TEMP", p.Foreground),
				radial.TextElement(180, "HUMID", p.Foreground),
			).Fixed(),
		},
		Center: &radial.Center{
			Radius:     ambientCenterRadius,
			Text:       a.theme.Icon(),
			Background: p.Accent,
			Foreground: p.Foreground,
			TextSize:   3,
		},
	}
}

func (a *AmbientMode) record(ctx context.Context, s ambientSample) {
	if a.history == nil {
		return
	}
	now := a.now()
	readings := []domain.Reading{domain.NewReading(domain.MetricLight, now, float64(s.light))}
	if s.temperature != nil {
		readings = append(readings, domain.NewReading(domain.MetricTemperature, now, *s.temperature))
	}
	if s.humidity != nil {
		readings = append(readings, domain.NewReading(domain.MetricHumidity, now, *s.humidity))
	}
	if s.pressure != nil {
		readings = append(readings, domain.NewReading(domain.MetricPressure, now, *s.pressure))
	}
	if err := a.history.StoreReadings(ctx, readings); err != nil {
		a.logger.Error().Err(err).Msg("failed to store readings")
	}
}

var (
	_ Mode          = (*AmbientMode)(nil)
	_ LightObserver = (*AmbientMode)(nil)
)
