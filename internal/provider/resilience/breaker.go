// Package resilience wraps outbound HTTP calls to data feeds with a circuit
// breaker and bounded exponential retries.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker of a feed client.
type BreakerConfig struct {
	Name string

	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// ReadyToTrip decides when consecutive failures open the breaker.
	ReadyToTrip func(counts gobreaker.Counts) bool

	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig opens after three consecutive failures and lets a
// trial request through after a minute.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: ConsecutiveFailures(3),
	}
}

// ConsecutiveFailures trips the breaker after n failures in a row.
func ConsecutiveFailures(n uint32) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= n
	}
}

// NewBreaker creates a typed circuit breaker.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.ReadyToTrip,
		OnStateChange: cfg.OnStateChange,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
