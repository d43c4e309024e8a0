package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
)

// Default refresh intervals.
const (
	DefaultCacheTTL    = 10 * time.Minute
	DefaultForecastTTL = 15 * time.Minute
)

// FeedID identifies the weather feed in persisted state.
const FeedID = "weather"

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrentWeather fetches current weather for a location.
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error)

	// GetForecast fetches hourly forecast for a location.
	GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// StateSaver persists feed refresh state.
type StateSaver interface {
	SaveFeedState(ctx context.Context, state *domain.FeedState) error
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	Provider Provider
	Store    StateSaver
	Logger   zerolog.Logger

	Lat float64
	Lon float64

	// CacheTTL is how long current conditions are reused (default: 10 minutes).
	CacheTTL time.Duration

	// ForecastTTL is how long the hourly outlook is reused (default: 15 minutes).
	ForecastTTL time.Duration

	// OnRefresh, if set, observes every current-conditions fetch.
	OnRefresh func(ok bool)
}

// Service provides weather for one location with caching.
type Service struct {
	provider    Provider
	store       StateSaver
	logger      zerolog.Logger
	lat, lon    float64
	cacheTTL    time.Duration
	forecastTTL time.Duration
	observe     func(ok bool)

	mu         sync.Mutex
	current    *Observation
	currentAt  time.Time
	forecast   *Forecast
	forecastAt time.Time
	state      *domain.FeedState
	now        func() time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := validateCoordinates(cfg.Lat, cfg.Lon); err != nil {
		return nil, err
	}
	if cfg.Provider == nil {
		return nil, ErrProviderUnavailable
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}
	forecastTTL := cfg.ForecastTTL
	if forecastTTL == 0 {
		forecastTTL = DefaultForecastTTL
	}

	return &Service{
		provider:    cfg.Provider,
		store:       cfg.Store,
		logger:      cfg.Logger.With().Str("component", "weather").Logger(),
		lat:         cfg.Lat,
		lon:         cfg.Lon,
		cacheTTL:    cacheTTL,
		forecastTTL: forecastTTL,
		observe:     cfg.OnRefresh,
		state:       domain.NewFeedState(FeedID),
		now:         time.Now,
	}, nil
}

// Current returns conditions for the configured location, fetching whatever
// has expired. A forecast failure is logged and the last forecast, if any,
// is kept. A failure fetching current weather is returned only when no
// earlier observation exists.
func (s *Service) Current(ctx context.Context) (Conditions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var fetchErr error

	if s.current == nil || now.Sub(s.currentAt) >= s.cacheTTL {
		obs, err := s.provider.GetCurrentWeather(ctx, s.lat, s.lon)
		if err != nil {
			fetchErr = fmt.Errorf("failed to fetch current weather: %w", err)
			s.logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("failed to fetch weather")
		} else {
			s.current = obs
			s.currentAt = now
		}
		s.record(ctx, fetchErr)
	}

	if s.forecastAt.IsZero() || now.Sub(s.forecastAt) >= s.forecastTTL {
		fc, err := s.provider.GetForecast(ctx, s.lat, s.lon)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to fetch forecast")
		} else {
			s.forecast = fc
		}
		s.forecastAt = now
	}

	if s.current == nil {
		if fetchErr == nil {
			fetchErr = ErrProviderUnavailable
		}
		return Conditions{}, fetchErr
	}
	if fetchErr != nil {
		s.logger.Warn().Time("fetched_at", s.currentAt).Msg("serving stale weather data due to provider error")
	}
	return Conditions{Current: s.current, Forecast: s.forecast}, nil
}

// Invalidate drops cached data so the next Current call refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.forecast = nil
	s.forecastAt = time.Time{}
	s.mu.Unlock()
}

func (s *Service) record(ctx context.Context, err error) {
	if err != nil {
		s.state.RecordError(err.Error())
	} else {
		s.state.RecordSuccess(map[string]any{
			"temperature": s.current.Temperature,
			"condition":   string(s.current.Condition),
		})
	}
	metrics.FeedRefreshes.WithLabelValues(FeedID, metrics.Result(err == nil)).Inc()
	if s.observe != nil {
		s.observe(err == nil)
	}

	if s.store == nil {
		return
	}
	if serr := s.store.SaveFeedState(ctx, s.state); serr != nil {
		s.logger.Error().Err(serr).Msg("failed to save feed state")
	}
}
