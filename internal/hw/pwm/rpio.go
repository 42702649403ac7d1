package pwm

import (
	"fmt"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// rpiCycle splits one frame into microsecond ticks.
const rpiCycle = uint32(FramePeriod / time.Microsecond)

var hardwarePWMPins = map[int]bool{12: true, 13: true, 18: true, 19: true}

// RPiChannel uses the Raspberry Pi hardware PWM through go-rpio.
// rpio must already be opened (gpio.NewRPiRealDriver does it).
type RPiChannel struct {
	pin rpio.Pin
}

// NewRPiChannel configures pin for hardware PWM at FrameRate.
func NewRPiChannel(pin int) (*RPiChannel, error) {
	if !hardwarePWMPins[pin] {
		return nil, fmt.Errorf("pin %d has no hardware PWM (use 12, 13, 18 or 19)", pin)
	}
	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	// Clock = frame rate * ticks per frame, i.e. 1 MHz.
	p.Freq(FrameRate * int(rpiCycle))
	debug.Info("Hardware PWM initialized on GPIO %d at %d Hz", pin, FrameRate)
	return &RPiChannel{pin: p}, nil
}

func (c *RPiChannel) SetPulseWidth(width time.Duration) error {
	duty := uint32(counts(width, int64(rpiCycle)))
	debug.GPIO("DutyCycle", int(c.pin), duty)
	c.pin.DutyCycle(duty, rpiCycle)
	return nil
}

func (c *RPiChannel) Close() error {
	c.pin.DutyCycle(0, rpiCycle)
	c.pin.Output()
	c.pin.Low()
	return nil
}
