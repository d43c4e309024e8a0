// Package config loads settings from an optional YAML file and ROUNDEL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ROUNDEL"

// Config is the full daemon configuration.
type Config struct {
	LogLevel         string        `mapstructure:"log_level"`
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	LightThreshold   int           `mapstructure:"light_threshold"`
	SensorTimeout    time.Duration `mapstructure:"sensor_timeout"`
	StorePath        string        `mapstructure:"store_path"`
	HistoryRetention time.Duration `mapstructure:"history_retention"`
	PruneSchedule    string        `mapstructure:"prune_schedule"`

	Display  DisplayConfig  `mapstructure:"display"`
	Transit  TransitConfig  `mapstructure:"transit"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	GPIO     GPIOConfig     `mapstructure:"gpio"`
	Hardware HardwareConfig `mapstructure:"hardware"`
}

type DisplayConfig struct {
	Size    int    `mapstructure:"size"`
	PixooIP string `mapstructure:"pixoo_ip"`
}

type TransitConfig struct {
	StationID       string        `mapstructure:"station_id"`
	StationName     string        `mapstructure:"station_name"`
	Line            string        `mapstructure:"line"`
	LineColor       uint16        `mapstructure:"line_color"`
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RedrawInterval  time.Duration `mapstructure:"redraw_interval"`
}

// Simulated reports whether no transit backend is configured.
func (t TransitConfig) Simulated() bool {
	return t.BaseURL == ""
}

type WeatherConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Lat             float64       `mapstructure:"lat"`
	Lon             float64       `mapstructure:"lon"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ForecastTTL     time.Duration `mapstructure:"forecast_ttl"`
	Simulate        bool          `mapstructure:"simulate"`
}

// Enabled reports whether the weather mode has a data source.
func (w WeatherConfig) Enabled() bool {
	return w.APIKey != "" || w.Simulate
}

type HTTPConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	Advertise   bool   `mapstructure:"advertise"`
	ButtonLimit int    `mapstructure:"button_limit"`
}

type MQTTConfig struct {
	BrokerURL   string `mapstructure:"broker_url"`
	ClientID    string `mapstructure:"client_id"`
	ButtonTopic string `mapstructure:"button_topic"`
	StatusTopic string `mapstructure:"status_topic"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool {
	return m.BrokerURL != ""
}

type GPIOConfig struct {
	ButtonPins []string `mapstructure:"button_pins"`
}

type HardwareConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	I2CBus     string `mapstructure:"i2c_bus"`
	BME280Addr uint16 `mapstructure:"bme280_addr"`
	LightAddr  uint16 `mapstructure:"light_addr"`
}

// SetDefaults registers every key with its default so environment
// overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("light_threshold", 300)
	v.SetDefault("sensor_timeout", 250*time.Millisecond)
	v.SetDefault("store_path", "roundel.db")
	v.SetDefault("history_retention", 7*24*time.Hour)
	v.SetDefault("prune_schedule", "0 3 * * *")

	v.SetDefault("display.size", 240)
	v.SetDefault("display.pixoo_ip", "")

	v.SetDefault("transit.station_id", "B06")
	v.SetDefault("transit.station_name", "Roosevelt Island")
	v.SetDefault("transit.line", "F")
	v.SetDefault("transit.line_color", 0xFD20)
	v.SetDefault("transit.base_url", "")
	v.SetDefault("transit.api_key", "")
	v.SetDefault("transit.refresh_interval", 2*time.Minute)
	v.SetDefault("transit.redraw_interval", 30*time.Second)

	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "")
	v.SetDefault("weather.lat", 40.7589)
	v.SetDefault("weather.lon", -73.9851)
	v.SetDefault("weather.refresh_interval", 10*time.Minute)
	v.SetDefault("weather.forecast_ttl", 15*time.Minute)
	v.SetDefault("weather.simulate", false)

	v.SetDefault("http.listen_addr", ":8080")
	v.SetDefault("http.advertise", false)
	v.SetDefault("http.button_limit", 10)

	v.SetDefault("mqtt.broker_url", "")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.button_topic", "roundel/buttons")
	v.SetDefault("mqtt.status_topic", "roundel/status")

	v.SetDefault("gpio.button_pins", []string{})

	v.SetDefault("hardware.enabled", false)
	v.SetDefault("hardware.i2c_bus", "")
	v.SetDefault("hardware.bme280_addr", 0x76)
	v.SetDefault("hardware.light_addr", 0x39)
}

// Load reads path (if non-empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if c.LightThreshold < 0 {
		errs = append(errs, errors.New("light_threshold must not be negative"))
	}
	if c.Transit.StationID == "" {
		errs = append(errs, errors.New("transit.station_id is required"))
	}
	if c.Weather.Lat < -90 || c.Weather.Lat > 90 || c.Weather.Lon < -180 || c.Weather.Lon > 180 {
		errs = append(errs, errors.New("weather coordinates out of range"))
	}
	if len(c.GPIO.ButtonPins) > 5 {
		errs = append(errs, errors.New("gpio.button_pins supports at most 5 buttons"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
