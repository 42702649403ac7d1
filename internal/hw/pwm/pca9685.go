package pwm

import (
	"fmt"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// pcaResolution is the PCA9685 counter length per frame (12 bits).
const pcaResolution = 4096

// PCA9685Channel drives one output of a PCA9685 I2C PWM board through periph.io.
type PCA9685Channel struct {
	bus     i2c.BusCloser
	dev     *pca9685.Dev
	channel int
}

// NewPCA9685Channel opens the I2C bus, sets the board to FrameRate and
// returns the given channel.
func NewPCA9685Channel(busName string, addr uint16, channel int) (*PCA9685Channel, error) {
	if channel < 0 || channel > 15 {
		return nil, fmt.Errorf("pca9685 channel must be 0-15, got %d", channel)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	if addr == 0 {
		addr = 0x40
	}
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init pca9685 at 0x%02x: %w", addr, err)
	}
	if err := dev.SetPwmFreq(FrameRate * physic.Hertz); err != nil {
		bus.Close()
		return nil, fmt.Errorf("set pca9685 frequency: %w", err)
	}
	debug.Info("PCA9685 PWM initialized (addr=0x%02x, channel=%d)", addr, channel)
	return &PCA9685Channel{bus: bus, dev: dev, channel: channel}, nil
}

func (c *PCA9685Channel) SetPulseWidth(width time.Duration) error {
	off := pgpio.Duty(counts(width, pcaResolution))
	debug.Trace("PCA9685 channel=%d off=%d", c.channel, off)
	return c.dev.SetPwm(c.channel, 0, off)
}

func (c *PCA9685Channel) Close() error {
	_ = c.dev.SetPwm(c.channel, 0, 0)
	return c.bus.Close()
}
