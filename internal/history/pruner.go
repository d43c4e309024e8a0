// Package history schedules removal of old sensor readings.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Defaults.
const (
	DefaultSchedule  = "0 3 * * *"
	DefaultRetention = 7 * 24 * time.Hour
)

// Deleter removes readings older than a cutoff.
type Deleter interface {
	DeleteOldData(ctx context.Context, before time.Time) (int64, error)
}

// PrunerConfig configures a Pruner.
type PrunerConfig struct {
	Store     Deleter
	Retention time.Duration
	Schedule  string
	Logger    zerolog.Logger
}

// Pruner deletes readings past the retention window on a cron schedule.
type Pruner struct {
	store     Deleter
	retention time.Duration
	schedule  string
	logger    zerolog.Logger
	cron      *cron.Cron
	now       func() time.Time

	mu      sync.Mutex
	lastRun time.Time
	removed int64
}

// NewPruner validates the schedule and creates a stopped pruner.
func NewPruner(cfg PrunerConfig) (*Pruner, error) {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	p := &Pruner{
		store:     cfg.Store,
		retention: retention,
		schedule:  schedule,
		logger:    cfg.Logger.With().Str("component", "history_pruner").Logger(),
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := p.cron.AddFunc(schedule, func() { p.Prune(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start runs the schedule in the background.
func (p *Pruner) Start() {
	p.cron.Start()
	p.logger.Info().Str("schedule", p.schedule).Dur("retention", p.retention).Msg("history pruning scheduled")
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
}

// Prune deletes readings older than the retention window and returns how
// many were removed.
func (p *Pruner) Prune(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.DeleteOldData(ctx, cutoff)
	if err != nil {
		p.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to prune history")
		return 0
	}

	p.mu.Lock()
	p.lastRun = p.now()
	p.removed += n
	p.mu.Unlock()

	p.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("pruned history")
	return n
}

// Stats returns the last successful run and the total rows removed.
func (p *Pruner) Stats() (time.Time, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRun, p.removed
}
