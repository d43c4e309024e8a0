package mode

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/theme"
	"github.com/jwulff/roundel/internal/transit"
	"github.com/jwulff/roundel/internal/weather"
)

// fakeDisplay keeps every layout and message it is asked to show.
type fakeDisplay struct {
	layouts  []radial.Layout
	messages []display.Message
}

func (d *fakeDisplay) Show(ctx context.Context, mode string, l radial.Layout) {
	d.layouts = append(d.layouts, l)
}

func (d *fakeDisplay) ShowMessage(ctx context.Context, mode string, m display.Message) {
	d.messages = append(d.messages, m)
}

func (d *fakeDisplay) Center() (int, int) { return 120, 120 }

func (d *fakeDisplay) draws() int { return len(d.layouts) + len(d.messages) }

func (d *fakeDisplay) last() radial.Layout { return d.layouts[len(d.layouts)-1] }

// texts returns every element content and the center text of a layout.
func texts(l radial.Layout) []string {
	var out []string
	if l.Center != nil {
		out = append(out, l.Center.Text)
	}
	for _, r := range l.Rings {
		for _, el := range r.Elements.Items() {
			if el.Content != "" {
				out = append(out, el.Content)
			}
		}
	}
	return out
}

func ringOfKind(l radial.Layout, k radial.Kind) (radial.Ring, bool) {
	for _, r := range l.Rings {
		if r.Kind == k {
			return r, true
		}
	}
	return radial.Ring{}, false
}

// callLog is shared by fake modes to assert call ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

type fakeMode struct {
	id     ID
	log    *callLog
	themes []theme.Theme
}

func (m *fakeMode) ID() ID       { return m.id }
func (m *fakeMode) Name() string { return m.id.String() }

func (m *fakeMode) Enter(ctx context.Context)  { m.log.add("%s.enter", m.id) }
func (m *fakeMode) Update(ctx context.Context) { m.log.add("%s.update", m.id) }
func (m *fakeMode) Exit()                      { m.log.add("%s.exit", m.id) }

func (m *fakeMode) HandleButton(ctx context.Context, index int) {
	m.log.add("%s.button", m.id)
}

func (m *fakeMode) SetTheme(t theme.Theme) {
	m.themes = append(m.themes, t)
	m.log.add("%s.theme.%s", m.id, t)
}

// fixedLight reports a settable lux value.
type fixedLight struct {
	lux int
	err error
}

func (f *fixedLight) ReadLightLevel(ctx context.Context) (int, error) {
	return f.lux, f.err
}

type fakeFeed struct {
	data      transit.StationData
	fresh     bool
	refreshes int
	stations  []string
}

func (f *fakeFeed) Refresh(ctx context.Context, stationID string) bool {
	f.refreshes++
	f.stations = append(f.stations, stationID)
	return f.fresh
}

func (f *fakeFeed) Arrivals() transit.StationData { return f.data }
func (f *fakeFeed) IsFresh() bool                 { return f.fresh }

type fakeWeather struct {
	conditions weather.Conditions
	err        error
	calls      int
}

func (f *fakeWeather) Current(ctx context.Context) (weather.Conditions, error) {
	f.calls++
	return f.conditions, f.err
}
