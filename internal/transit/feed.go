package transit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/metrics"
)

// FeedID identifies the transit feed in persisted state.
const FeedID = "transit"

// StateSaver persists feed refresh state.
type StateSaver interface {
	SaveFeedState(ctx context.Context, state *domain.FeedState) error
}

// FeedConfig configures a Feed.
type FeedConfig struct {
	Provider    Provider
	Store       StateSaver
	FreshWindow time.Duration
	Logger      zerolog.Logger

	// OnRefresh, if set, observes every refresh outcome.
	OnRefresh func(ok bool)
}

// Feed caches the latest station data from a provider.
type Feed struct {
	provider Provider
	store    StateSaver
	window   time.Duration
	logger   zerolog.Logger
	observe  func(ok bool)

	mu    sync.RWMutex
	data  StationData
	state *domain.FeedState
	now   func() time.Time
}

// NewFeed creates a feed with no data.
func NewFeed(cfg FeedConfig) *Feed {
	window := cfg.FreshWindow
	if window <= 0 {
		window = FreshWindow
	}
	return &Feed{
		provider: cfg.Provider,
		store:    cfg.Store,
		window:   window,
		observe:  cfg.OnRefresh,
		logger:   cfg.Logger.With().Str("component", "transit_feed").Logger(),
		state:    domain.NewFeedState(FeedID),
		now:      time.Now,
	}
}

// Refresh fetches the station and reports whether it succeeded. On failure
// the previous data is kept and ages out of the fresh window.
func (f *Feed) Refresh(ctx context.Context, stationID string) bool {
	data, err := f.provider.FetchStation(ctx, stationID)
	if err == nil && data.Empty() {
		err = ErrNoData
	}

	f.mu.Lock()
	if err != nil {
		f.state.RecordError(err.Error())
		f.logger.Warn().Err(err).
			Str("provider", f.provider.Name()).
			Str("station", stationID).
			Int("error_count", f.state.ErrorCount).
			Msg("transit refresh failed")
	} else {
		data = data.Truncate()
		data.StationID = stationID
		data.UpdatedAt = f.now()
		f.data = data
		f.state.RecordSuccess(map[string]int{
			"uptown":   len(data.Uptown),
			"downtown": len(data.Downtown),
		})
		f.state.LastRun = data.UpdatedAt
		f.logger.Debug().
			Str("station", stationID).
			Int("uptown", len(data.Uptown)).
			Int("downtown", len(data.Downtown)).
			Msg("transit refreshed")
	}
	state := *f.state
	f.mu.Unlock()

	metrics.FeedRefreshes.WithLabelValues(FeedID, metrics.Result(err == nil)).Inc()
	if f.observe != nil {
		f.observe(err == nil)
	}

	if f.store != nil {
		if serr := f.store.SaveFeedState(ctx, &state); serr != nil {
			f.logger.Error().Err(serr).Msg("failed to save feed state")
		}
	}
	return err == nil
}

// Arrivals returns the last successfully fetched data.
func (f *Feed) Arrivals() StationData {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.data
}

// IsFresh reports whether the data was fetched within the fresh window.
func (f *Feed) IsFresh() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.data.UpdatedAt.IsZero() {
		return false
	}
	return f.now().Sub(f.data.UpdatedAt) < f.window
}

// State returns a copy of the refresh state.
func (f *Feed) State() domain.FeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return *f.state
}
