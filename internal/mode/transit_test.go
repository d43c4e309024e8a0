package mode

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/radial"
	"github.com/jwulff/roundel/internal/render"
	"github.com/jwulff/roundel/internal/surface"
	"github.com/jwulff/roundel/internal/transit"
)

func simulatedBoard() transit.StationData {
	return transit.StationData{
		StationID: DefaultStationID,
		Uptown: []transit.Arrival{
			{Route: "F", Destination: "179 St", Minutes: 2},
			{Route: "F", Destination: "179 St", Minutes: 8},
			{Route: "F", Destination: "179 St", Minutes: 15},
		},
		Downtown: []transit.Arrival{
			{Route: "F", Destination: "Coney Island", Minutes: 4},
		},
	}
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTransit(feed ArrivalFeed, d Display) (*TransitMode, *testClock) {
	clock := &testClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	m := NewTransit(TransitConfig{Feed: feed, Display: d, Logger: zerolog.Nop()})
	m.now = clock.now
	return m, clock
}

func TestTransit_Defaults(t *testing.T) {
	m := NewTransit(TransitConfig{Logger: zerolog.Nop()})
	assert.Equal(t, "B06", m.stationID)
	assert.Equal(t, "Roosevelt Island", m.stationName)
	assert.Equal(t, "F", m.line)
	assert.Equal(t, render.ColorOrange, m.lineColor)
	assert.Equal(t, 2*time.Minute, m.refreshInterval)
	assert.Equal(t, 30*time.Second, m.redrawInterval)
}

func TestTransit_EnterRefreshesAndDraws(t *testing.T) {
	feed := &fakeFeed{data: simulatedBoard(), fresh: true}
	d := &fakeDisplay{}
	m, _ := newTestTransit(feed, d)

	m.Enter(context.Background())

	assert.Equal(t, []string{"B06"}, feed.stations)
	require.Len(t, d.layouts, 1)
	l := d.last()

	assert.Equal(t, render.ColorOrange, l.Background)
	require.NotNil(t, l.Center)
	assert.Equal(t, "F", l.Center.Text)
	assert.Equal(t, 30, l.Center.Radius)
	assert.Equal(t, 4, l.Center.TextSize)

	require.Len(t, l.Rings, 3)
	assert.Equal(t, 50, l.Rings[0].Radius)
	assert.Equal(t, "Roosevelt Island", l.Rings[0].Elements.At(0).Content)
	assert.Equal(t, 70, l.Rings[1].Radius)
	assert.Equal(t, 2, l.Rings[1].TextSize)
	assert.Equal(t, "UPTOWN", l.Rings[1].Elements.At(0).Content)

	arrivals := l.Rings[2]
	assert.Equal(t, radial.KindCircles, arrivals.Kind)
	assert.Equal(t, 95, arrivals.Radius)
	require.Equal(t, 3, arrivals.Elements.Len())
	for i, want := range []struct {
		angle float64
		text  string
	}{{90, "2m"}, {210, "8m"}, {330, "15m"}} {
		el := arrivals.Elements.At(i)
		assert.Equal(t, want.angle, el.Angle)
		assert.Equal(t, want.text, el.Content)
	}
}

func TestTransit_AtMostThreeArrivals(t *testing.T) {
	board := simulatedBoard()
	board.Uptown = append(board.Uptown, transit.Arrival{Route: "F", Minutes: 22})
	feed := &fakeFeed{data: board, fresh: true}
	d := &fakeDisplay{}
	m, _ := newTestTransit(feed, d)

	m.Enter(context.Background())

	ring, ok := ringOfKind(d.last(), radial.KindCircles)
	require.True(t, ok)
	assert.Equal(t, transit.MaxArrivals, ring.Elements.Len())
	assert.NotContains(t, texts(d.last()), "22m")
}

func TestTransit_SkipsInvalidArrivals(t *testing.T) {
	board := simulatedBoard()
	board.Uptown = []transit.Arrival{
		{Destination: "179 St", Minutes: 5},
		{Route: "F", Destination: "179 St", Minutes: 9},
		{Route: "F", Destination: "179 St", Minutes: -1},
	}
	feed := &fakeFeed{data: board, fresh: true}
	d := &fakeDisplay{}
	m, _ := newTestTransit(feed, d)

	m.Enter(context.Background())

	ring, ok := ringOfKind(d.last(), radial.KindCircles)
	require.True(t, ok)
	require.Equal(t, 1, ring.Elements.Len())
	assert.Equal(t, "9m", ring.Elements.At(0).Content)
	assert.Equal(t, arrivalAngles[0], ring.Elements.At(0).Angle)
	got := texts(d.last())
	assert.NotContains(t, got, "5m")
	assert.NotContains(t, got, "-1m")
}

func TestTransit_ButtonTogglesDirection(t *testing.T) {
	feed := &fakeFeed{data: simulatedBoard(), fresh: true}
	d := &fakeDisplay{}
	m, _ := newTestTransit(feed, d)
	ctx := context.Background()

	m.Enter(ctx)
	m.HandleButton(ctx, 1)

	assert.Equal(t, transit.Downtown, m.Direction())
	require.Len(t, d.layouts, 2)
	got := texts(d.last())
	assert.Contains(t, got, "DOWNTOWN")
	assert.Contains(t, got, "4m")
	assert.NotContains(t, got, "2m")

	m.HandleButton(ctx, 1)
	assert.Equal(t, transit.Uptown, m.Direction())
}

func TestTransit_NoDataPlaceholder(t *testing.T) {
	rec := surface.NewRecorder()
	screen := display.New(display.Config{Surface: rec, Logger: zerolog.Nop()})
	m, _ := newTestTransit(&fakeFeed{}, screen)

	m.Enter(context.Background())

	assert.Equal(t, []string{NoDataText}, rec.Printed())
}

func TestTransit_UpdateCadence(t *testing.T) {
	feed := &fakeFeed{data: simulatedBoard(), fresh: true}
	d := &fakeDisplay{}
	m, clock := newTestTransit(feed, d)
	ctx := context.Background()

	m.Enter(ctx)
	require.Equal(t, 1, d.draws())
	require.Equal(t, 1, feed.refreshes)

	clock.advance(10 * time.Second)
	m.Update(ctx)
	assert.Equal(t, 1, d.draws())
	assert.Equal(t, 1, feed.refreshes)

	clock.advance(20 * time.Second)
	m.Update(ctx)
	assert.Equal(t, 2, d.draws())
	assert.Equal(t, 1, feed.refreshes)

	clock.advance(90 * time.Second)
	m.Update(ctx)
	assert.Equal(t, 2, feed.refreshes)
	assert.Equal(t, 3, d.draws())
}

func TestTransit_StaleFeedRetriedOnRefreshInterval(t *testing.T) {
	feed := &fakeFeed{data: simulatedBoard(), fresh: false}
	d := &fakeDisplay{}
	m, clock := newTestTransit(feed, d)
	ctx := context.Background()

	m.Enter(ctx)
	require.Equal(t, 1, feed.refreshes)

	for i := 0; i < 5; i++ {
		clock.advance(time.Second)
		m.Update(ctx)
	}
	assert.Equal(t, 1, feed.refreshes)

	clock.advance(DefaultRefreshInterval)
	m.Update(ctx)
	assert.Equal(t, 2, feed.refreshes)
	assert.Equal(t, NoDataText, d.messages[len(d.messages)-1].Text)
}

func TestTransit_FreshnessChangeRedraws(t *testing.T) {
	feed := &fakeFeed{data: simulatedBoard(), fresh: true}
	d := &fakeDisplay{}
	m, clock := newTestTransit(feed, d)
	ctx := context.Background()

	m.Enter(ctx)
	feed.fresh = false
	clock.advance(time.Second)
	m.Update(ctx)

	require.Len(t, d.messages, 1)
	assert.Equal(t, NoDataText, d.messages[0].Text)

	feed.fresh = true
	clock.advance(time.Second)
	m.Update(ctx)
	assert.Len(t, d.layouts, 2)
}

func TestTransit_WithFeed(t *testing.T) {
	feed := transit.NewFeed(transit.FeedConfig{Provider: transit.NewSimulated(), Logger: zerolog.Nop()})
	d := &fakeDisplay{}
	m := NewTransit(TransitConfig{Feed: feed, Display: d, Logger: zerolog.Nop()})

	m.Enter(context.Background())

	require.Len(t, d.layouts, 1)
	got := texts(d.last())
	assert.Contains(t, got, "2m")
	assert.Contains(t, got, "8m")
	assert.Contains(t, got, "15m")
}
