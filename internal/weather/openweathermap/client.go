// Package openweathermap implements weather.Provider against the
// OpenWeatherMap 2.5 API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/provider/resilience"
	"github.com/jwulff/roundel/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// forecastSlots is the number of 3-hour forecast entries requested.
	forecastSlots = 8
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetCurrentWeather fetches current weather for a location.
func (c *Client) GetCurrentWeather(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	var owmResp currentWeatherResponse
	if err := c.get(ctx, url, &owmResp); err != nil {
		return nil, err
	}
	return toObservation(&owmResp), nil
}

// GetForecast fetches the 3-hourly forecast for a location. Each entry is
// reported as one HourlyForecast slot.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*weather.Forecast, error) {
	url := fmt.Sprintf("%s/forecast?lat=%.6f&lon=%.6f&appid=%s&units=metric&cnt=%d",
		c.baseURL, lat, lon, c.apiKey, forecastSlots)

	var owmResp forecastResponse
	if err := c.get(ctx, url, &owmResp); err != nil {
		return nil, err
	}
	return toForecast(&owmResp), nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func toObservation(resp *currentWeatherResponse) *weather.Observation {
	obs := &weather.Observation{
		Lat:         resp.Coord.Lat,
		Lon:         resp.Coord.Lon,
		Temperature: resp.Main.Temp,
		TempMin:     resp.Main.TempMin,
		TempMax:     resp.Main.TempMax,
		Humidity:    resp.Main.Humidity,
		Pressure:    resp.Main.Pressure,
		ObservedAt:  time.Unix(resp.Dt, 0),
		FetchedAt:   time.Now(),
	}

	if len(resp.Weather) > 0 {
		obs.Condition = mapCondition(resp.Weather[0].Main)
		obs.Description = resp.Weather[0].Description
	} else {
		obs.Condition = weather.ConditionUnknown
	}

	return obs
}

func toForecast(resp *forecastResponse) *weather.Forecast {
	fc := &weather.Forecast{
		Lat:       resp.City.Coord.Lat,
		Lon:       resp.City.Coord.Lon,
		Hourly:    make([]weather.HourlyForecast, 0, len(resp.List)),
		FetchedAt: time.Now(),
	}

	for _, e := range resp.List {
		h := weather.HourlyForecast{
			Time:        time.Unix(e.Dt, 0),
			Temperature: e.Main.Temp,
			PrecipProb:  e.Pop,
			Condition:   weather.ConditionUnknown,
		}
		if len(e.Weather) > 0 {
			h.Condition = mapCondition(e.Weather[0].Main)
		}
		fc.Hourly = append(fc.Hourly, h)
	}

	return fc
}

// mapCondition maps OpenWeatherMap condition to domain condition.
func mapCondition(owmCondition string) weather.Condition {
	switch owmCondition {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionClouds
	case "Rain":
		return weather.ConditionRain
	case "Drizzle":
		return weather.ConditionDrizzle
	case "Thunderstorm":
		return weather.ConditionThunderstorm
	case "Snow":
		return weather.ConditionSnow
	case "Mist":
		return weather.ConditionMist
	case "Fog":
		return weather.ConditionFog
	case "Haze", "Dust", "Sand", "Ash", "Squall", "Tornado", "Smoke":
		return weather.ConditionHaze
	default:
		return weather.ConditionUnknown
	}
}

// OpenWeatherMap API response structures.

type conditionEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []conditionEntry `json:"weather"`
	Main    struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []conditionEntry `json:"weather"`
		Pop     float64          `json:"pop"`
	} `json:"list"`
	City struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
}

var _ weather.Provider = (*Client)(nil)
