// Package change suppresses redraws when tracked values have not moved.
package change

import (
	"math"

	"github.com/jwulff/roundel/internal/domain"
)

// Metrics maps each tracked metric to its current value.
type Metrics map[domain.Metric]float64

// Epsilons maps each tracked metric to the change that forces a redraw.
type Epsilons map[domain.Metric]float64

// DefaultEpsilons are the thresholds used by the ambient readout.
var DefaultEpsilons = Epsilons{
	domain.MetricTemperature: 0.1,
	domain.MetricHumidity:    0.5,
	domain.MetricLight:       50,
}

// Snapshot holds the values last drawn by a mode.
type Snapshot struct {
	epsilons Epsilons
	values   Metrics
	rendered bool
}

// NewSnapshot creates an unrendered snapshot using the given thresholds.
func NewSnapshot(eps Epsilons) *Snapshot {
	return &Snapshot{epsilons: eps}
}

// ShouldRedraw reports whether current differs enough from the last
// committed values. It always returns true before the first commit. A
// tracked metric that appears or disappears counts as a change.
func (s *Snapshot) ShouldRedraw(current Metrics) bool {
	if !s.rendered {
		return true
	}
	for metric, eps := range s.epsilons {
		cur, ok := current[metric]
		prev, seen := s.values[metric]
		switch {
		case !ok && !seen:
			continue
		case ok != seen:
			return true
		case math.Abs(cur-prev) > eps:
			return true
		}
	}
	return false
}

// Commit records current as the rendered values.
func (s *Snapshot) Commit(current Metrics) {
	s.values = make(Metrics, len(current))
	for k, v := range current {
		s.values[k] = v
	}
	s.rendered = true
}

// Reset marks the snapshot unrendered so the next check forces a redraw.
func (s *Snapshot) Reset() {
	s.values = nil
	s.rendered = false
}

// Rendered reports whether anything has been committed since the last reset.
func (s *Snapshot) Rendered() bool {
	return s.rendered
}
