package mode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/render"
	"github.com/jwulff/roundel/internal/theme"
	"github.com/jwulff/roundel/internal/transit"
)

// Transit defaults.
const (
	DefaultStationID       = "B06"
	DefaultStationName     = "Roosevelt Island"
	DefaultLine            = "F"
	DefaultRefreshInterval = 2 * time.Minute
	DefaultRedrawInterval  = 30 * time.Second
)

// Transit layout geometry.
const (
	transitCenterRadius    = 30
	transitStationRadius   = 50
	transitDirectionRadius = 70
	transitArrivalRadius   = 95
	transitArrivalSize     = 20
)

// arrivalAngles are the slots of the arrival circles.
var arrivalAngles = [transit.MaxArrivals]float64{90, 210, 330}

// ArrivalFeed is the transit data collaborator.
type ArrivalFeed interface {
	Refresh(ctx context.Context, stationID string) bool
	Arrivals() transit.StationData
	IsFresh() bool
}

// TransitConfig configures the transit board.
type TransitConfig struct {
	Feed    ArrivalFeed
	Display Display
	Logger  zerolog.Logger

	StationID   string
	StationName string
	Line        string
	LineColor   domain.RGB

	RefreshInterval time.Duration
	RedrawInterval  time.Duration
}

// TransitMode shows the next arrivals at one station. Its button toggles
// between uptown and downtown.
type TransitMode struct {
	feed    ArrivalFeed
	display Display
	logger  zerolog.Logger

	stationID   string
	stationName string
	line        string
	lineColor   domain.RGB

	refreshInterval time.Duration
	redrawInterval  time.Duration

	direction   transit.Direction
	theme       theme.Theme
	rendered    bool
	renderedOK  bool
	lastDraw    time.Time
	lastRefresh time.Time
	now         func() time.Time
}

// NewTransit creates the transit mode.
func NewTransit(cfg TransitConfig) *TransitMode {
	t := &TransitMode{
		feed:            cfg.Feed,
		display:         cfg.Display,
		logger:          cfg.Logger.With().Str("mode", Transit.String()).Logger(),
		stationID:       cfg.StationID,
		stationName:     cfg.StationName,
		line:            cfg.Line,
		lineColor:       cfg.LineColor,
		refreshInterval: cfg.RefreshInterval,
		redrawInterval:  cfg.RedrawInterval,
		now:             time.Now,
	}
	if t.stationID == "" {
		t.stationID = DefaultStationID
	}
	if t.stationName == "" {
		t.stationName = DefaultStationName
	}
	if t.line == "" {
		t.line = DefaultLine
	}
	if t.lineColor == (domain.RGB{}) {
		t.lineColor = render.ColorOrange
	}
	if t.refreshInterval <= 0 {
		t.refreshInterval = DefaultRefreshInterval
	}
	if t.redrawInterval <= 0 {
		t.redrawInterval = DefaultRedrawInterval
	}
	return t
}

func (t *TransitMode) ID() ID       { return Transit }
func (t *TransitMode) Name() string { return Transit.String() }

// Direction returns the direction being shown.
func (t *TransitMode) Direction() transit.Direction { return t.direction }

// Enter fetches the station and draws.
func (t *TransitMode) Enter(ctx context.Context) {
	t.rendered = false
	t.refresh(ctx)
	t.draw(ctx)
}

// Update refetches once per refresh interval whether or not the feed is
// fresh, so a stale feed is retried at that cadence and not every tick. It
// redraws every redraw interval, or immediately when the data goes fresh or
// stale.
func (t *TransitMode) Update(ctx context.Context) {
	now := t.now()
	if now.Sub(t.lastRefresh) >= t.refreshInterval {
		t.refresh(ctx)
	}

	if t.rendered && t.feed.IsFresh() == t.renderedOK && now.Sub(t.lastDraw) < t.redrawInterval {
		metrics.RenderSkips.WithLabelValues(t.Name()).Inc()
		return
	}
	t.draw(ctx)
}

func (t *TransitMode) Exit() {
	t.rendered = false
}

func (t *TransitMode) HandleButton(ctx context.Context, index int) {
	t.direction = t.direction.Toggle()
	t.logger.Info().Str("direction", t.direction.String()).Msg("direction changed")
	t.draw(ctx)
}

func (t *TransitMode) SetTheme(th theme.Theme) {
	t.theme = th
	t.rendered = false
}

func (t *TransitMode) refresh(ctx context.Context) {
	t.lastRefresh = t.now()
	if !t.feed.Refresh(ctx, t.stationID) {
		t.logger.Warn().Str("station", t.stationID).Msg("transit refresh failed")
	}
}

func (t *TransitMode) draw(ctx context.Context) {
	fresh := t.feed.IsFresh()
	if fresh {
		t.display.Show(ctx, t.Name(), t.layout(t.feed.Arrivals()))
	} else {
		t.logger.Info().Msg("no transit data available")
		t.display.ShowMessage(ctx, t.Name(), noData(theme.PaletteFor(t.theme)))
	}
	t.rendered = true
	t.renderedOK = fresh
	t.lastDraw = t.now()
}

func (t *TransitMode) layout(data transit.StationData) radial.Layout {
	cx, cy := t.display.Center()
	ink := render.ColorBlack

	arrivals := radial.NewElements(transit.MaxArrivals)
	for _, a := range data.For(t.direction) {
		if arrivals.Len() >= len(arrivalAngles) {
			break
		}
		if !a.Valid() {
			continue
		}
		angle := arrivalAngles[arrivals.Len()]
		arrivals.Append(radial.CircleElement(angle, fmt.Sprintf("%dm", a.Minutes), render.ColorWhite, transitArrivalSize))
	}

	rings := []radial.Ring{
		radial.TextRing(transitStationRadius, 1, radial.TextElement(0, t.stationName, ink)),
		radial.TextRing(transitDirectionRadius, 2, radial.TextElement(0, t.direction.Label(), ink)),
	}
	if arrivals.Len() > 0 {
		ring := radial.CircleRing(transitArrivalRadius, render.ColorWhite, ink).Fixed().WithTextSize(2)
		ring.Elements = arrivals
		rings = append(rings, ring)
	}

	return radial.Layout{
		CenterX:    cx,
		CenterY:    cy,
		Background: t.lineColor,
		Rings:      rings,
		Center: &radial.Center{
			Radius:     transitCenterRadius,
			Text:       t.line,
			Background: ink,
			Foreground: t.lineColor,
			TextSize:   4,
		},
	}
}

var _ Mode = (*TransitMode)(nil)
