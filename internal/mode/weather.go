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
	"github.com/jwulff/roundel/internal/render"
	"github.com/jwulff/roundel/internal/theme"
	"github.com/jwulff/roundel/internal/weather"
)

// DefaultWeatherRefresh is how often the weather mode asks for new conditions.
const DefaultWeatherRefresh = 10 * time.Minute

// Weather layout geometry.
const (
	weatherCenterRadius    = 30
	weatherConditionRadius = 52
	weatherRangeRadius     = 78
	weatherRangeSize       = 16
	weatherGaugeRadius     = 100
	weatherGaugeThickness  = 4
	weatherGaugeSpan       = 270
	weatherOutlookRadius   = 112
	weatherOutlookHours    = 6
)

// WeatherSource supplies current conditions.
type WeatherSource interface {
	Current(ctx context.Context) (weather.Conditions, error)
}

// WeatherConfig configures the weather mode.
type WeatherConfig struct {
	Source  WeatherSource
	Display Display
	Logger  zerolog.Logger

	RefreshInterval time.Duration
	Epsilons        change.Epsilons
}

// WeatherMode shows outdoor conditions with a humidity gauge and a short
// rain outlook. Its button toggles Celsius and Fahrenheit.
type WeatherMode struct {
	source  WeatherSource
	display Display
	logger  zerolog.Logger

	refreshInterval time.Duration

	unit          Unit
	theme         theme.Theme
	snapshot      *change.Snapshot
	conditions    weather.Conditions
	lastFetch     time.Time
	lastCondition weather.Condition
	now           func() time.Time
}

// NewWeather creates the weather mode.
func NewWeather(cfg WeatherConfig) *WeatherMode {
	eps := cfg.Epsilons
	if eps == nil {
		eps = change.DefaultEpsilons
	}
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultWeatherRefresh
	}
	return &WeatherMode{
		source:          cfg.Source,
		display:         cfg.Display,
		logger:          cfg.Logger.With().Str("mode", Weather.String()).Logger(),
		refreshInterval: refresh,
		snapshot:        change.NewSnapshot(eps),
		now:             time.Now,
	}
}

func (w *WeatherMode) ID() ID       { return Weather }
func (w *WeatherMode) Name() string { return Weather.String() }

// Unit returns the current temperature unit.
func (w *WeatherMode) Unit() Unit { return w.unit }

func (w *WeatherMode) Enter(ctx context.Context) {
	w.snapshot.Reset()
	w.fetch(ctx)
	w.draw(ctx)
}

func (w *WeatherMode) Update(ctx context.Context) {
	if w.now().Sub(w.lastFetch) >= w.refreshInterval {
		w.fetch(ctx)
	}
	if !w.snapshot.ShouldRedraw(w.tracked()) {
		metrics.RenderSkips.WithLabelValues(w.Name()).Inc()
		return
	}
	w.draw(ctx)
}

func (w *WeatherMode) Exit() {
	w.snapshot.Reset()
}

func (w *WeatherMode) HandleButton(ctx context.Context, index int) {
	w.unit = w.unit.Toggle()
	w.logger.Info().Str("unit", w.unit.String()).Msg("temperature unit changed")
	w.draw(ctx)
}

func (w *WeatherMode) SetTheme(t theme.Theme) {
	w.theme = t
	w.snapshot.Reset()
}

func (w *WeatherMode) fetch(ctx context.Context) {
	w.lastFetch = w.now()
	c, err := w.source.Current(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("weather unavailable")
		return
	}
	w.conditions = c
	if c.Current.Condition != w.lastCondition {
		w.lastCondition = c.Current.Condition
		w.snapshot.Reset()
	}
}

func (w *WeatherMode) draw(ctx context.Context) {
	current := w.tracked()
	if w.conditions.Current == nil {
		w.display.ShowMessage(ctx, w.Name(), noData(theme.PaletteFor(w.theme)))
	} else {
		w.display.Show(ctx, w.Name(), w.layout(w.conditions))
	}
	w.snapshot.Commit(current)
}

func (w *WeatherMode) tracked() change.Metrics {
	m := change.Metrics{}
	if obs := w.conditions.Current; obs != nil {
		m[domain.MetricTemperature] = w.unit.Convert(obs.Temperature)
		m[domain.MetricHumidity] = obs.Humidity
	}
	return m
}

func (w *WeatherMode) layout(c weather.Conditions) radial.Layout {
	p := theme.PaletteFor(w.theme)
	cx, cy := w.display.Center()
	obs := c.Current

	gauge := int(weatherGaugeSpan * clamp(obs.Humidity, 0, 100) / 100)
	start := -float64(weatherGaugeSpan) / 2
	arcs := radial.ArcRing(weatherGaugeRadius, weatherGaugeThickness,
		radial.ArcElement(0, weatherGaugeSpan, p.Accent),
	)
	if gauge > 0 {
		arcs.Elements.Append(radial.ArcElement(start+float64(gauge)/2, gauge, render.ColorRain))
	}

	dots := radial.DotRing(weatherOutlookRadius, 150, 210)
	for _, rain := range c.Forecast.RainFlags(weatherOutlookHours) {
		color := p.Accent
		if rain {
			color = render.ColorRain
		}
		dots.Elements.Append(radial.Element{Color: color, Visible: true})
	}

	return radial.Layout{
		CenterX:    cx,
		CenterY:    cy,
		Background: p.Background,
		Rings: []radial.Ring{
			radial.TextRing(weatherConditionRadius, 1,
				radial.TextElement(0, obs.Condition.Label(), p.Foreground),
				radial.TextElement(180, fmt.Sprintf("%d%%", int(obs.Humidity)), p.Foreground),
			).Fixed(),
			radial.CircleRing(weatherRangeRadius, p.Accent, p.Foreground,
				radial.CircleElement(90, w.unit.Format(w.unit.Convert(obs.TempMax)), p.Accent, weatherRangeSize),
				radial.CircleElement(270, w.unit.Format(w.unit.Convert(obs.TempMin)), p.Accent, weatherRangeSize),
			).Fixed(),
			arcs,
			dots,
		},
		Center: &radial.Center{
			Radius:     weatherCenterRadius,
			Text:       w.unit.Format(w.unit.Convert(obs.Temperature)),
			Background: p.Accent,
			Foreground: p.Foreground,
			TextSize:   2,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

var _ Mode = (*WeatherMode)(nil)
