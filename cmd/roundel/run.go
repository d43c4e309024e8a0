package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/config"
	"github.com/jwulff/roundel/internal/discovery"
	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/history"
	"github.com/jwulff/roundel/internal/httpapi"
	"github.com/jwulff/roundel/internal/input"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/mqtt"
	"github.com/jwulff/roundel/internal/pixoo"
	"github.com/jwulff/roundel/internal/render"
	"github.com/jwulff/roundel/internal/status"
	"github.com/jwulff/roundel/internal/storage/sqlite"
	"github.com/jwulff/roundel/internal/transit"
	"github.com/jwulff/roundel/internal/weather"
)

// run starts the daemon and blocks until SIGINT or SIGTERM.
func run(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info().Str("build_time", BuildTime).Msg("starting roundel")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.NewFileStore(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	sensors, closeSensors, err := openSensors(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open sensors: %w", err)
	}
	defer closeSensors()

	// Status LEDs publish over MQTT once the broker is up, otherwise to the log.
	broker := &brokerPublisher{}
	var ledOut status.Output = status.LogOutput{Logger: logger}
	if cfg.MQTT.Enabled() {
		ledOut = status.NewMQTTOutput(broker, cfg.MQTT.StatusTopic)
	}
	leds := status.NewManager(ledOut, logger)
	leds.SetData(status.DataLoading)

	hub := httpapi.NewHub(logger)
	canvas := render.NewCanvas(cfg.Display.Size, cfg.Display.Size)
	screen := display.New(display.Config{
		Surface: canvas,
		Sinks:   []display.Sink{display.NewFrameCache(store), hub},
		Logger:  logger,
		CenterX: cfg.Display.Size / 2,
		CenterY: cfg.Display.Size / 2,
	})
	if cfg.Display.PixooIP != "" {
		screen.AddSink(pixoo.NewMirror(pixoo.NewClient(cfg.Display.PixooIP), logger))
	}

	modes, err := buildModes(deps{
		cfg:       cfg,
		sensor:    sensors,
		display:   screen,
		history:   store,
		store:     store,
		logger:    logger,
		onRefresh: leds.ObserveRefresh,
	})
	if err != nil {
		return err
	}
	ctrl := mode.NewController(mode.ControllerConfig{
		Light:     sensors,
		Threshold: cfg.LightThreshold,
		Logger:    logger,
	}, modes...)

	var wg sync.WaitGroup
	spawn := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Str("task", name).Msg("task failed")
			}
		}()
	}

	spawn("leds", func() error {
		leds.Run(ctx, status.DefaultInterval)
		return nil
	})

	if cfg.MQTT.Enabled() {
		leds.SetConnectivity(status.Connecting)
		client, err := mqtt.Connect(mqtt.Config{
			BrokerURL:        cfg.MQTT.BrokerURL,
			ClientID:         cfg.MQTT.ClientID,
			Logger:           logger,
			OnConnect:        func() { leds.SetConnectivity(status.Connected) },
			OnConnectionLost: func(error) { leds.SetConnectivity(status.Disconnected) },
		})
		if err != nil {
			leds.SetConnectivity(status.Disconnected)
			logger.Error().Err(err).Msg("mqtt unavailable, buttons limited to gpio and http")
		} else {
			defer client.Close()
			broker.set(client)
			buttons := input.NewMQTTButtons(client, cfg.MQTT.ButtonTopic, logger)
			spawn(buttons.Name(), func() error { return buttons.Run(ctx, ctrl) })
		}
	}

	if len(cfg.GPIO.ButtonPins) > 0 {
		buttons, err := input.OpenGPIOButtons(cfg.GPIO.ButtonPins, logger)
		if err != nil {
			logger.Error().Err(err).Msg("gpio buttons unavailable")
		} else {
			spawn(buttons.Name(), func() error { return buttons.Run(ctx, ctrl) })
		}
	}

	pruner, err := history.NewPruner(history.PrunerConfig{
		Store:     store,
		Retention: cfg.HistoryRetention,
		Schedule:  cfg.PruneSchedule,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	pruner.Start()
	defer pruner.Stop()

	api := httpapi.NewServer(httpapi.Config{
		Controller:   ctrl,
		Frames:       screen,
		Hub:          hub,
		Logger:       logger,
		StoredFrames: store,
		Feeds:        store,
		FeedIDs:      []string{transit.FeedID, weather.FeedID},
		History:      store,
		ButtonLimit:  cfg.HTTP.ButtonLimit,
		MaxButton:    input.MaxButton,
	})
	spawn("http", func() error { return api.ListenAndServe(ctx, cfg.HTTP.ListenAddr) })

	if cfg.HTTP.Advertise {
		port, err := discovery.PortFromAddr(cfg.HTTP.ListenAddr)
		if err != nil {
			logger.Error().Err(err).Msg("cannot advertise api")
		} else {
			adv := discovery.NewAdvertiser(discovery.Config{
				Port:    port,
				Version: Version,
				Station: cfg.Transit.StationID,
				Logger:  logger,
			})
			if err := adv.Start(); err != nil {
				logger.Error().Err(err).Msg("mdns advertise failed")
			} else {
				defer adv.Stop()
			}
		}
	}

	if err := ctrl.Start(ctx); err != nil {
		stop()
		wg.Wait()
		return err
	}
	ctrl.Run(ctx, cfg.TickInterval)

	logger.Info().Msg("shutting down")
	wg.Wait()
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "roundel").
		Str("version", Version).
		Logger()
}

// brokerPublisher lets LED output be wired before the broker connects.
type brokerPublisher struct {
	mu     sync.Mutex
	client *mqtt.Client
}

func (b *brokerPublisher) set(c *mqtt.Client) {
	b.mu.Lock()
	b.client = c
	b.mu.Unlock()
}

func (b *brokerPublisher) Publish(topic string, payload []byte) error {
	b.mu.Lock()
	c := b.client
	b.mu.Unlock()
	if c == nil {
		return errors.New("mqtt not connected")
	}
	return c.Publish(topic, payload)
}
