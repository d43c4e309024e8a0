package domain

import "time"

// FeedState stores the refresh history of an external data feed.
type FeedState struct {
	FeedID     string
	LastRun    time.Time
	LastData   any
	ErrorCount int
	LastError  string
}

// NewFeedState creates a new feed state.
func NewFeedState(feedID string) *FeedState {
	return &FeedState{
		FeedID: feedID,
	}
}

// RecordSuccess records a successful refresh.
func (s *FeedState) RecordSuccess(data any) {
	s.LastRun = time.Now()
	s.LastData = data
	s.ErrorCount = 0
	s.LastError = ""
}

// RecordError records a failed refresh.
func (s *FeedState) RecordError(errMsg string) {
	s.ErrorCount++
	s.LastError = errMsg
}

// Healthy reports whether the last refresh succeeded.
func (s *FeedState) Healthy() bool {
	return s.ErrorCount == 0 && !s.LastRun.IsZero()
}

// Metric names an environmental quantity sampled by the sensors.
type Metric string

// Known metrics.
const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricLight       Metric = "light"
	MetricPressure    Metric = "pressure"
)

// Reading is a single sensor sample.
type Reading struct {
	Metric    Metric
	Timestamp time.Time
	Value     float64
}

// NewReading creates a reading stamped with the given time.
func NewReading(metric Metric, timestamp time.Time, value float64) Reading {
	return Reading{
		Metric:    metric,
		Timestamp: timestamp,
		Value:     value,
	}
}
