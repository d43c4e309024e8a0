package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwulff/roundel/internal/domain"
)

// Simulated is an in-memory sensor for development and tests.
type Simulated struct {
	mu       sync.Mutex
	values   map[domain.Metric]float64
	failures map[domain.Metric]bool
	stalled  bool
}

// NewSimulated creates a simulated sensor with room-like defaults.
func NewSimulated() *Simulated {
	return &Simulated{
		values: map[domain.Metric]float64{
			domain.MetricTemperature: 21.5,
			domain.MetricHumidity:    45,
			domain.MetricPressure:    101.3,
			domain.MetricLight:       400,
		},
		failures: map[domain.Metric]bool{},
	}
}

// Set changes the value reported for a metric.
func (s *Simulated) Set(metric domain.Metric, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[metric] = value
}

// Fail makes reads of a metric return ErrUnavailable until cleared.
func (s *Simulated) Fail(metric domain.Metric, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[metric] = fail
}

// Stall makes the light sensor never report a ready sample.
func (s *Simulated) Stall(stalled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalled = stalled
}

func (s *Simulated) read(metric domain.Metric) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[metric] {
		return 0, fmt.Errorf("%s: %w", metric, ErrUnavailable)
	}
	return s.values[metric], nil
}

func (s *Simulated) ReadTemperature(ctx context.Context) (float64, error) {
	return s.read(domain.MetricTemperature)
}

func (s *Simulated) ReadHumidity(ctx context.Context) (float64, error) {
	return s.read(domain.MetricHumidity)
}

func (s *Simulated) ReadPressure(ctx context.Context) (float64, error) {
	return s.read(domain.MetricPressure)
}

func (s *Simulated) LightReady(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stalled, nil
}

func (s *Simulated) ReadLight(ctx context.Context) (int, error) {
	v, err := s.read(domain.MetricLight)
	return int(v), err
}

var (
	_ Environment = (*Simulated)(nil)
	_ LightSource = (*Simulated)(nil)
)
