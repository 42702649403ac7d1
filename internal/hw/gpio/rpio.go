package gpio

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

type rpiLine struct {
	pin  rpio.Pin
	mode PinMode
}

// RPiDriver drives the header pins through go-rpio's /dev/gpiomem mapping.
// Motor lines, IR inputs and named outputs share the pin table, which is
// touched by both the control loop and the web handlers.
type RPiDriver struct {
	mu    sync.Mutex
	lines map[int]rpiLine
}

// NewRPiRealDriver maps GPIO memory. It must run on a Raspberry Pi with
// access to /dev/gpiomem (or as root). The mapping also backs pwm.RPiChannel.
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open GPIO: %w (not a Raspberry Pi?)", err)
	}
	debug.Verbose("GPIO memory mapped")

	return &RPiDriver{lines: make(map[int]rpiLine)}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.setupLocked(pin, mode)
	return err
}

func (r *RPiDriver) setupLocked(pin int, mode PinMode) (rpio.Pin, error) {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)
	switch mode {
	case Output:
		p.Output()
	case Input:
		p.Input()
		p.PullOff()
	case InputPullUp:
		p.Input()
		p.PullUp()
	default:
		return p, fmt.Errorf("unknown pin mode: %d", mode)
	}
	r.lines[pin] = rpiLine{pin: p, mode: mode}
	return p, nil
}

// WritePin drives an output. Pins that were never set up become outputs.
func (r *RPiDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lines[pin]
	p := l.pin
	if !ok {
		var err error
		if p, err = r.setupLocked(pin, Output); err != nil {
			return err
		}
	} else if l.mode != Output {
		return fmt.Errorf("pin %d is configured as input", pin)
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

// ReadPin samples a pin. Pins that were never set up become plain inputs.
func (r *RPiDriver) ReadPin(pin int) (Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lines[pin]
	p := l.pin
	if !ok {
		var err error
		if p, err = r.setupLocked(pin, Input); err != nil {
			return Low, err
		}
	}

	level := Level(p.Read() == rpio.High)
	debug.GPIO("ReadPin", pin, level)
	return level, nil
}

// Close drives every output low (both H-bridge lines low: motors coast),
// releases the pull-ups and returns all pins to inputs before unmapping.
func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	r.mu.Lock()
	defer r.mu.Unlock()

	for n, l := range r.lines {
		debug.Verbose("Releasing pin %d (%v)", n, l.mode)
		if l.mode == Output {
			l.pin.Low()
		}
		l.pin.Input()
		l.pin.PullOff()
	}
	r.lines = make(map[int]rpiLine)

	return rpio.Close()
}
