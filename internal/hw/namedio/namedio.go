package namedio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/gpio"
)

// ErrUnsupported is returned for names that have no configured pin.
var ErrUnsupported = errors.New("unsupported named output")

// Outputs maps human names (e.g. "Red" for the status LED) to GPIO outputs.
type Outputs struct {
	gpio gpio.Driver
	pins map[string]int
}

// New configures every named pin as an output, initially low.
func New(g gpio.Driver, pins map[string]int) *Outputs {
	o := &Outputs{gpio: g, pins: make(map[string]int, len(pins))}
	for name, pin := range pins {
		o.pins[name] = pin
		_ = g.SetupPin(pin, gpio.Output)
		_ = g.WritePin(pin, gpio.Low)
	}
	return o
}

// Set drives the named output. Unknown names return an error wrapping
// ErrUnsupported and leave every pin untouched.
func (o *Outputs) Set(name string, on bool) error {
	pin, ok := o.pins[name]
	if !ok {
		debug.Warn("Unknown GPIO name '%s'", name)
		return fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	debug.Live("Named output %s (pin %d) -> %v", name, pin, on)
	return o.gpio.WritePin(pin, gpio.Level(on))
}

// Names returns the configured names, sorted.
func (o *Outputs) Names() []string {
	names := make([]string, 0, len(o.pins))
	for name := range o.pins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
