package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/sensor"
	"github.com/jwulff/roundel/internal/surface"
	"github.com/jwulff/roundel/internal/transit"
	"github.com/jwulff/roundel/internal/weather"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug <ambient|transit|weather>")
		os.Exit(1)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
	rec := surface.NewRecorder()
	screen := display.New(display.Config{Surface: rec, Logger: logger})

	sim := sensor.NewSimulated()
	sensors := sensor.NewSuite(sim, sim, 0)

	var m mode.Mode
	switch os.Args[1] {
	case "ambient":
		m = mode.NewAmbient(mode.AmbientConfig{Sensor: sensors, Display: screen, Logger: logger})
	case "transit":
		feed := transit.NewFeed(transit.FeedConfig{Provider: transit.NewSimulated(), Logger: logger})
		m = mode.NewTransit(mode.TransitConfig{Feed: feed, Display: screen, Logger: logger})
	case "weather":
		svc, err := weather.NewService(weather.ServiceConfig{Provider: weather.Simulated{}, Logger: logger})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		m = mode.NewWeather(mode.WeatherConfig{Source: svc, Display: screen, Logger: logger})
	default:
		fmt.Printf("Unknown mode: %s\n", os.Args[1])
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m.Enter(ctx)
	calls := rec.Calls()
	fmt.Printf("%s first frame: %d draw calls\n", m.Name(), len(calls))
	fmt.Printf("  Printed: %q\n", rec.Printed())
	fmt.Println()
	fmt.Println(rec.String())

	// A button press toggles the sub-state; show what changed.
	rec.Reset()
	m.HandleButton(ctx, 0)
	fmt.Printf("After button: %q\n", rec.Printed())
	m.Exit()
}
