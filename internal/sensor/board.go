package sensor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// senseTTL is how long one BME280 measurement serves the three env reads.
const senseTTL = time.Second

// BoardConfig selects the I2C bus and device addresses.
type BoardConfig struct {
	Bus        string
	BME280Addr uint16
	LightAddr  uint16
}

// Board is the sensor carrier: a BME280 and an APDS-9960 on one I2C bus.
type Board struct {
	bus   i2c.BusCloser
	env   *bmxx80.Dev
	light *APDS9960

	mu     sync.Mutex
	last   physic.Env
	sensed time.Time
}

// OpenBoard initializes the host drivers and both sensors.
func OpenBoard(cfg BoardConfig) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", cfg.Bus, err)
	}

	env, err := bmxx80.NewI2C(bus, cfg.BME280Addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to open bme280: %w", err)
	}

	addr := cfg.LightAddr
	if addr == 0 {
		addr = APDS9960DefaultAddr
	}
	light := NewAPDS9960(bus, addr)
	if err := light.Init(); err != nil {
		env.Halt()
		bus.Close()
		return nil, err
	}

	return &Board{bus: bus, env: env, light: light}, nil
}

// Light returns the board's light sensor.
func (b *Board) Light() LightSource {
	return b.light
}

func (b *Board) sense() (physic.Env, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.sensed) < senseTTL {
		return b.last, nil
	}
	var e physic.Env
	if err := b.env.Sense(&e); err != nil {
		return physic.Env{}, fmt.Errorf("bme280: %w: %v", ErrUnavailable, err)
	}
	b.last = e
	b.sensed = time.Now()
	return e, nil
}

func (b *Board) ReadTemperature(ctx context.Context) (float64, error) {
	e, err := b.sense()
	if err != nil {
		return 0, err
	}
	return float64(e.Temperature-physic.ZeroCelsius) / float64(physic.Celsius), nil
}

func (b *Board) ReadHumidity(ctx context.Context) (float64, error) {
	e, err := b.sense()
	if err != nil {
		return 0, err
	}
	return float64(e.Humidity) / float64(physic.PercentRH), nil
}

func (b *Board) ReadPressure(ctx context.Context) (float64, error) {
	e, err := b.sense()
	if err != nil {
		return 0, err
	}
	return float64(e.Pressure) / float64(physic.KiloPascal), nil
}

// Close halts the BME280 and releases the bus.
func (b *Board) Close() error {
	if err := b.env.Halt(); err != nil {
		b.bus.Close()
		return err
	}
	return b.bus.Close()
}

var _ Environment = (*Board)(nil)
