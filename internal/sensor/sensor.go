// Package sensor reads the environmental and ambient light sensors.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when a sensor cannot produce a sample in time.
var ErrUnavailable = errors.New("sensor unavailable")

// Default light poll timing.
const (
	DefaultLightTimeout = 250 * time.Millisecond
	DefaultLightRetry   = 5 * time.Millisecond
)

// Environment reads temperature (°C), relative humidity (%) and pressure (kPa).
type Environment interface {
	ReadTemperature(ctx context.Context) (float64, error)
	ReadHumidity(ctx context.Context) (float64, error)
	ReadPressure(ctx context.Context) (float64, error)
}

// LightSource is an ambient light sensor that must be polled until a
// sample is ready.
type LightSource interface {
	LightReady(ctx context.Context) (bool, error)
	ReadLight(ctx context.Context) (int, error)
}

// Sensor is the full sensor collaborator used by the modes.
type Sensor interface {
	Environment
	ReadLightLevel(ctx context.Context) (int, error)
}

// PollLight waits for the light sensor to report a sample, retrying every
// retry interval until timeout elapses.
func PollLight(ctx context.Context, src LightSource, timeout, retry time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(retry)
	defer ticker.Stop()

	for {
		ready, err := src.LightReady(ctx)
		if err != nil {
			return 0, fmt.Errorf("light: %w: %v", ErrUnavailable, err)
		}
		if ready {
			lux, err := src.ReadLight(ctx)
			if err != nil {
				return 0, fmt.Errorf("light: %w: %v", ErrUnavailable, err)
			}
			return lux, nil
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("light: %w: no sample within %s", ErrUnavailable, timeout)
		case <-ticker.C:
		}
	}
}

// Suite combines an environment sensor and a light sensor.
type Suite struct {
	Environment
	light        LightSource
	lightTimeout time.Duration
	lightRetry   time.Duration
}

// NewSuite creates a suite with the given light poll timeout.
func NewSuite(env Environment, light LightSource, lightTimeout time.Duration) *Suite {
	if lightTimeout <= 0 {
		lightTimeout = DefaultLightTimeout
	}
	return &Suite{
		Environment:  env,
		light:        light,
		lightTimeout: lightTimeout,
		lightRetry:   DefaultLightRetry,
	}
}

// ReadLightLevel polls the light sensor within the configured timeout.
func (s *Suite) ReadLightLevel(ctx context.Context) (int, error) {
	return PollLight(ctx, s.light, s.lightTimeout, s.lightRetry)
}

var _ Sensor = (*Suite)(nil)
