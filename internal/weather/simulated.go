package weather

import (
	"context"
	"time"
)

// Simulated returns mild conditions with an afternoon shower.
type Simulated struct{}

func (Simulated) Name() string { return "simulated" }

func (Simulated) GetCurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error) {
	now := time.Now()
	return &Observation{
		Lat:         lat,
		Lon:         lon,
		Temperature: 18.4,
		TempMin:     14.2,
		TempMax:     21.7,
		Humidity:    62,
		Pressure:    1014,
		Condition:   ConditionClouds,
		Description: "broken clouds",
		ObservedAt:  now,
		FetchedAt:   now,
	}, nil
}

func (Simulated) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	now := time.Now().Truncate(time.Hour)
	probs := []float64{0.1, 0.2, 0.6, 0.8, 0.4, 0.1}
	fc := &Forecast{Lat: lat, Lon: lon, FetchedAt: now}
	for i, p := range probs {
		cond := ConditionClouds
		if p >= RainThreshold {
			cond = ConditionRain
		}
		fc.Hourly = append(fc.Hourly, HourlyForecast{
			Time:        now.Add(time.Duration(i+1) * time.Hour),
			Temperature: 18 - float64(i)/2,
			Condition:   cond,
			PrecipProb:  p,
		})
	}
	return fc, nil
}

var _ Provider = Simulated{}
