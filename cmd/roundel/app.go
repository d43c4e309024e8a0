package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/config"
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/sensor"
	"github.com/jwulff/roundel/internal/transit"
	"github.com/jwulff/roundel/internal/transit/mta"
	"github.com/jwulff/roundel/internal/weather"
	"github.com/jwulff/roundel/internal/weather/openweathermap"
)

// deps are the collaborators shared by every mode.
type deps struct {
	cfg     *config.Config
	sensor  sensor.Sensor
	display mode.Display
	history mode.HistoryRecorder
	store   transit.StateSaver
	logger  zerolog.Logger

	// onRefresh observes every transit and weather refresh.
	onRefresh func(ok bool)
}

// buildModes creates the ambient and transit modes, plus weather when a
// source is configured.
func buildModes(d deps) ([]mode.Mode, error) {
	cfg := d.cfg

	ambient := mode.NewAmbient(mode.AmbientConfig{
		Sensor:  d.sensor,
		Display: d.display,
		History: d.history,
		Logger:  d.logger,
	})

	var provider transit.Provider = transit.NewSimulated()
	if !cfg.Transit.Simulated() {
		provider = mta.NewClient(mta.ClientConfig{
			BaseURL: cfg.Transit.BaseURL,
			APIKey:  cfg.Transit.APIKey,
			Logger:  d.logger,
		})
	}
	feed := transit.NewFeed(transit.FeedConfig{
		Provider:  provider,
		Store:     d.store,
		Logger:    d.logger,
		OnRefresh: d.onRefresh,
	})
	board := mode.NewTransit(mode.TransitConfig{
		Feed:            feed,
		Display:         d.display,
		Logger:          d.logger,
		StationID:       cfg.Transit.StationID,
		StationName:     cfg.Transit.StationName,
		Line:            cfg.Transit.Line,
		LineColor:       domain.FromRGB565(cfg.Transit.LineColor),
		RefreshInterval: cfg.Transit.RefreshInterval,
		RedrawInterval:  cfg.Transit.RedrawInterval,
	})

	modes := []mode.Mode{ambient, board}
	if !cfg.Weather.Enabled() {
		d.logger.Info().Msg("weather mode disabled: no api key")
		return modes, nil
	}

	var wp weather.Provider = weather.Simulated{}
	if cfg.Weather.APIKey != "" {
		wp = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:  cfg.Weather.APIKey,
			BaseURL: cfg.Weather.BaseURL,
			Logger:  d.logger,
		})
	}
	svc, err := weather.NewService(weather.ServiceConfig{
		Provider:    wp,
		Store:       d.store,
		Logger:      d.logger,
		Lat:         cfg.Weather.Lat,
		Lon:         cfg.Weather.Lon,
		CacheTTL:    cfg.Weather.RefreshInterval,
		ForecastTTL: cfg.Weather.ForecastTTL,
		OnRefresh:   d.onRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weather service: %w", err)
	}
	modes = append(modes, mode.NewWeather(mode.WeatherConfig{
		Source:          svc,
		Display:         d.display,
		Logger:          d.logger,
		RefreshInterval: cfg.Weather.RefreshInterval,
	}))
	return modes, nil
}

// openSensors opens the I2C board when hardware is enabled and falls back to
// simulated readings otherwise.
func openSensors(cfg *config.Config, logger zerolog.Logger) (sensor.Sensor, func(), error) {
	if !cfg.Hardware.Enabled {
		sim := sensor.NewSimulated()
		return sensor.NewSuite(sim, sim, cfg.SensorTimeout), func() {}, nil
	}

	board, err := sensor.OpenBoard(sensor.BoardConfig{
		Bus:        cfg.Hardware.I2CBus,
		BME280Addr: cfg.Hardware.BME280Addr,
		LightAddr:  cfg.Hardware.LightAddr,
	})
	if err != nil {
		return nil, nil, err
	}
	closeBoard := func() {
		if err := board.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close sensor board")
		}
	}
	return sensor.NewSuite(board, board.Light(), cfg.SensorTimeout), closeBoard, nil
}

// buttonFor maps a mode name to the button that selects it.
func buttonFor(name string) (int, bool) {
	for index, id := range mode.DefaultButtons {
		if id.String() == name {
			return index, true
		}
	}
	return 0, false
}
