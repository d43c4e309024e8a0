package sensor

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// APDS9960DefaultAddr is the fixed I2C address of the APDS-9960.
const APDS9960DefaultAddr = 0x39

// APDS-9960 registers.
const (
	apdsRegEnable = 0x80
	apdsRegATime  = 0x81
	apdsRegStatus = 0x93
	apdsRegCDataL = 0x94

	apdsEnablePower = 0x01
	apdsEnableALS   = 0x02
	apdsStatusValid = 0x01

	// 72 integration cycles, about 200ms.
	apdsATime = 0xB8
)

// APDS9960 reads the clear channel of the APDS-9960 color sensor.
type APDS9960 struct {
	dev *i2c.Dev
}

// NewAPDS9960 creates a driver on the given bus.
func NewAPDS9960(bus i2c.Bus, addr uint16) *APDS9960 {
	return &APDS9960{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Init configures the integration time and powers up the ALS engine.
func (a *APDS9960) Init() error {
	if err := a.write(apdsRegATime, apdsATime); err != nil {
		return fmt.Errorf("failed to set integration time: %w", err)
	}
	if err := a.write(apdsRegEnable, apdsEnablePower|apdsEnableALS); err != nil {
		return fmt.Errorf("failed to enable light sensor: %w", err)
	}
	return nil
}

// LightReady reports whether a completed ALS cycle is available.
func (a *APDS9960) LightReady(ctx context.Context) (bool, error) {
	status, err := a.read(apdsRegStatus, 1)
	if err != nil {
		return false, err
	}
	return status[0]&apdsStatusValid != 0, nil
}

// ReadLight returns the clear channel count.
func (a *APDS9960) ReadLight(ctx context.Context) (int, error) {
	data, err := a.read(apdsRegCDataL, 2)
	if err != nil {
		return 0, err
	}
	return int(data[0]) | int(data[1])<<8, nil
}

func (a *APDS9960) read(reg byte, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := a.dev.Tx([]byte{reg}, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *APDS9960) write(reg, b byte) error {
	return a.dev.Tx([]byte{reg, b}, nil)
}

var _ LightSource = (*APDS9960)(nil)
