package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jwulff/roundel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdownLight struct {
	pollsUntilReady int
	polls           int
	lux             int
	readyErr        error
}

func (c *countdownLight) LightReady(ctx context.Context) (bool, error) {
	if c.readyErr != nil {
		return false, c.readyErr
	}
	c.polls++
	return c.polls > c.pollsUntilReady, nil
}

func (c *countdownLight) ReadLight(ctx context.Context) (int, error) {
	return c.lux, nil
}

func TestPollLightReadyImmediately(t *testing.T) {
	src := &countdownLight{lux: 420}

	lux, err := PollLight(context.Background(), src, time.Second, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 420, lux)
	assert.Equal(t, 1, src.polls)
}

func TestPollLightRetriesUntilReady(t *testing.T) {
	src := &countdownLight{pollsUntilReady: 3, lux: 120}

	lux, err := PollLight(context.Background(), src, time.Second, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 120, lux)
	assert.Equal(t, 4, src.polls)
}

func TestPollLightTimeout(t *testing.T) {
	src := &countdownLight{pollsUntilReady: 1 << 30}

	start := time.Now()
	_, err := PollLight(context.Background(), src, 20*time.Millisecond, time.Millisecond)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPollLightReadyError(t *testing.T) {
	src := &countdownLight{readyErr: errors.New("i2c nack")}

	_, err := PollLight(context.Background(), src, time.Second, time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "i2c nack")
}

func TestSuiteReadLightLevel(t *testing.T) {
	sim := NewSimulated()
	sim.Set(domain.MetricLight, 250)
	suite := NewSuite(sim, sim, 50*time.Millisecond)

	lux, err := suite.ReadLightLevel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, lux)

	temp, err := suite.ReadTemperature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21.5, temp)
}

func TestSuiteStalledLight(t *testing.T) {
	sim := NewSimulated()
	sim.Stall(true)
	suite := NewSuite(sim, sim, 20*time.Millisecond)

	_, err := suite.ReadLightLevel(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSuiteDefaultTimeout(t *testing.T) {
	sim := NewSimulated()
	suite := NewSuite(sim, sim, 0)
	assert.Equal(t, DefaultLightTimeout, suite.lightTimeout)
}

func TestSimulatedFail(t *testing.T) {
	sim := NewSimulated()
	sim.Fail(domain.MetricHumidity, true)

	_, err := sim.ReadHumidity(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	sim.Fail(domain.MetricHumidity, false)
	h, err := sim.ReadHumidity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45.0, h)
}
