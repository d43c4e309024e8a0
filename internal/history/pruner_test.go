package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/storage/sqlite"
)

type fakeDeleter struct {
	cutoffs []time.Time
	n       int64
	err     error
}

func (d *fakeDeleter) DeleteOldData(ctx context.Context, before time.Time) (int64, error) {
	d.cutoffs = append(d.cutoffs, before)
	return d.n, d.err
}

func TestNewPrunerRejectsBadSchedule(t *testing.T) {
	_, err := NewPruner(PrunerConfig{Store: &fakeDeleter{}, Schedule: "every tuesday", Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestPruneUsesRetention(t *testing.T) {
	d := &fakeDeleter{n: 4}
	p, err := NewPruner(PrunerConfig{Store: d, Retention: 48 * time.Hour, Logger: zerolog.Nop()})
	require.NoError(t, err)
	now := time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	assert.Equal(t, int64(4), p.Prune(context.Background()))
	require.Len(t, d.cutoffs, 1)
	assert.Equal(t, now.Add(-48*time.Hour), d.cutoffs[0])

	last, total := p.Stats()
	assert.Equal(t, now, last)
	assert.Equal(t, int64(4), total)
}

func TestPruneError(t *testing.T) {
	d := &fakeDeleter{err: errors.New("disk full")}
	p, err := NewPruner(PrunerConfig{Store: d, Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, int64(0), p.Prune(context.Background()))
	last, _ := p.Stats()
	assert.True(t, last.IsZero())
}

func TestPruneSQLiteStore(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)
	require.NoError(t, store.StoreReadings(ctx, []domain.Reading{
		domain.NewReading(domain.MetricTemperature, now.Add(-10*24*time.Hour), 20),
		domain.NewReading(domain.MetricTemperature, now.Add(-time.Hour), 21),
	}))

	p, err := NewPruner(PrunerConfig{Store: store, Logger: zerolog.Nop()})
	require.NoError(t, err)
	p.now = func() time.Time { return now }

	assert.Equal(t, int64(1), p.Prune(ctx))

	left, err := store.QueryHistory(ctx, domain.MetricTemperature, now.Add(-30*24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, 21.0, left[0].Value)
}

func TestStartStop(t *testing.T) {
	p, err := NewPruner(PrunerConfig{Store: &fakeDeleter{}, Logger: zerolog.Nop()})
	require.NoError(t, err)
	p.Start()
	p.Stop()
}
