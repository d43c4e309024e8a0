package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/roundel/internal/domain"
)

type fakeProvider struct {
	obsCalls, fcCalls int
	obsErr, fcErr     error
	temp              float64
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetCurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error) {
	f.obsCalls++
	if f.obsErr != nil {
		return nil, f.obsErr
	}
	return &Observation{Lat: lat, Lon: lon, Temperature: f.temp, Condition: ConditionClear}, nil
}

func (f *fakeProvider) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	f.fcCalls++
	if f.fcErr != nil {
		return nil, f.fcErr
	}
	return &Forecast{Hourly: []HourlyForecast{{PrecipProb: 0.9}}}, nil
}

type stateLog struct{ states []domain.FeedState }

func (s *stateLog) SaveFeedState(ctx context.Context, st *domain.FeedState) error {
	s.states = append(s.states, *st)
	return nil
}

func newTestService(t *testing.T, p Provider, store StateSaver) (*Service, *time.Time) {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Provider: p,
		Store:    store,
		Logger:   zerolog.Nop(),
		Lat:      40.7589,
		Lon:      -73.9851,
	})
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(ServiceConfig{Provider: &fakeProvider{}, Lat: 91})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = NewService(ServiceConfig{Lat: 40, Lon: -73})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCurrentCaches(t *testing.T) {
	p := &fakeProvider{temp: 21}
	store := &stateLog{}
	svc, now := newTestService(t, p, store)
	ctx := context.Background()

	c, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21.0, c.Current.Temperature)
	assert.Equal(t, 40.7589, c.Current.Lat)
	require.NotNil(t, c.Forecast)

	*now = now.Add(DefaultCacheTTL - time.Second)
	_, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.obsCalls)
	assert.Equal(t, 1, p.fcCalls)

	*now = now.Add(time.Second)
	_, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.obsCalls)
	assert.Equal(t, 1, p.fcCalls)

	require.Len(t, store.states, 2)
	assert.True(t, store.states[1].Healthy())
}

func TestCurrentServesStaleOnError(t *testing.T) {
	p := &fakeProvider{temp: 19}
	svc, now := newTestService(t, p, nil)
	ctx := context.Background()

	_, err := svc.Current(ctx)
	require.NoError(t, err)

	p.obsErr = errors.New("timeout")
	*now = now.Add(DefaultCacheTTL)

	c, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 19.0, c.Current.Temperature)
}

func TestCurrentFailsWithoutData(t *testing.T) {
	p := &fakeProvider{obsErr: errors.New("unauthorized")}
	store := &stateLog{}
	svc, _ := newTestService(t, p, store)

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
	require.Len(t, store.states, 1)
	assert.Equal(t, 1, store.states[0].ErrorCount)
}

func TestForecastFailureIsNotFatal(t *testing.T) {
	p := &fakeProvider{temp: 10, fcErr: errors.New("subscription required")}
	svc, _ := newTestService(t, p, nil)

	c, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c.Forecast)
	assert.Equal(t, []bool{false, false}, c.Forecast.RainFlags(2))

	_, _ = svc.Current(context.Background())
	assert.Equal(t, 1, p.fcCalls)
}

func TestInvalidate(t *testing.T) {
	p := &fakeProvider{temp: 10}
	svc, _ := newTestService(t, p, nil)

	_, _ = svc.Current(context.Background())
	svc.Invalidate()
	_, _ = svc.Current(context.Background())

	assert.Equal(t, 2, p.obsCalls)
}

func TestRainFlags(t *testing.T) {
	fc := &Forecast{Hourly: []HourlyForecast{
		{PrecipProb: 0.1},
		{PrecipProb: 0.5},
		{PrecipProb: 0.2, Condition: ConditionSnow},
	}}

	assert.Equal(t, []bool{false, true, true, false}, fc.RainFlags(4))
}

func TestConditionLabel(t *testing.T) {
	assert.Equal(t, "CLEAR", ConditionClear.Label())
	assert.Equal(t, "STORM", ConditionThunderstorm.Label())
	assert.Equal(t, "--", ConditionUnknown.Label())
	assert.True(t, ConditionDrizzle.Wet())
	assert.False(t, ConditionFog.Wet())
}

func TestSimulated(t *testing.T) {
	obs, err := Simulated{}.GetCurrentWeather(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, ConditionClouds, obs.Condition)

	fc, err := Simulated{}.GetForecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, true, false, false}, fc.RainFlags(6))
}

func TestCurrentReportsOutcome(t *testing.T) {
	p := &fakeProvider{obsErr: errors.New("503")}
	var outcomes []bool
	svc, err := NewService(ServiceConfig{
		Provider:  p,
		Logger:    zerolog.Nop(),
		Lat:       40.7589,
		Lon:       -73.9851,
		OnRefresh: func(ok bool) { outcomes = append(outcomes, ok) },
	})
	require.NoError(t, err)

	_, err = svc.Current(context.Background())
	require.Error(t, err)
	p.obsErr = nil
	_, err = svc.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, outcomes)
}
