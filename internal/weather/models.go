// Package weather provides current conditions and a short precipitation
// outlook for the display location.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Observation is the current weather at the configured location.
type Observation struct {
	Lat float64
	Lon float64

	// Temperatures in Celsius
	Temperature float64
	TempMin     float64
	TempMax     float64

	// Humidity percentage (0-100)
	Humidity float64

	// Atmospheric pressure in hPa
	Pressure float64

	Condition   Condition
	Description string

	ObservedAt time.Time
	FetchedAt  time.Time
}

// Condition represents the general weather condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)

// Label is a short on-screen name for the condition.
func (c Condition) Label() string {
	switch c {
	case ConditionThunderstorm:
		return "STORM"
	case ConditionUnknown, "":
		return "--"
	default:
		return string(c)
	}
}

// Wet reports whether the condition involves precipitation.
func (c Condition) Wet() bool {
	switch c {
	case ConditionRain, ConditionDrizzle, ConditionThunderstorm, ConditionSnow:
		return true
	}
	return false
}

// Forecast is an hourly outlook.
type Forecast struct {
	Lat       float64
	Lon       float64
	Hourly    []HourlyForecast
	FetchedAt time.Time
}

// HourlyForecast is the weather for a single hour.
type HourlyForecast struct {
	Time        time.Time
	Temperature float64
	Condition   Condition
	PrecipProb  float64 // 0-1
}

// RainThreshold is the precipitation probability flagged as rain.
const RainThreshold = 0.5

// RainFlags reports, for each of the next n hours, whether rain is likely.
// Missing hours are reported as false.
func (f *Forecast) RainFlags(n int) []bool {
	flags := make([]bool, n)
	if f == nil {
		return flags
	}
	for i := 0; i < n && i < len(f.Hourly); i++ {
		h := f.Hourly[i]
		flags[i] = h.PrecipProb >= RainThreshold || h.Condition.Wet()
	}
	return flags
}

// Conditions bundles what the weather mode displays.
type Conditions struct {
	Current  *Observation
	Forecast *Forecast
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
