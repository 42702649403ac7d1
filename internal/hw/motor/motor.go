package motor

import (
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/gpio"
)

// DefaultRampInterval is the minimum time between two applied direction
// commands on one axis. Faster reversals can destroy the H-bridge.
const DefaultRampInterval = 30 * time.Millisecond

// Direction is the exclusive drive state of an axis.
type Direction int

const (
	Stopped  Direction = iota
	Forward            // pan left / tilt up: A high, B low
	Backward           // pan right / tilt down: A low, B high
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "stopped"
	}
}

// Config holds the hardware configuration for one H-bridge driven DC motor.
type Config struct {
	Name         string // "pan", "tilt"
	PinA         int
	PinB         int
	RampInterval time.Duration // 0 = DefaultRampInterval
}

// Axis drives one DC motor through two H-bridge control lines.
// It is not safe for concurrent use; motion.Controller serializes access.
type Axis struct {
	gpio       gpio.Driver
	cfg        Config
	dir        Direction
	lastChange time.Time
	now        func() time.Time
}

// Option customizes an Axis.
type Option func(*Axis)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Axis) { a.now = now }
}

// NewAxis configures both control lines as outputs and brakes the motor.
func NewAxis(g gpio.Driver, cfg Config, opts ...Option) *Axis {
	if cfg.RampInterval <= 0 {
		cfg.RampInterval = DefaultRampInterval
	}
	a := &Axis{
		gpio: g,
		cfg:  cfg,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	_ = g.SetupPin(cfg.PinA, gpio.Output)
	_ = g.SetupPin(cfg.PinB, gpio.Output)
	a.write(gpio.Low, gpio.Low)

	return a
}

// Name returns the axis name.
func (a *Axis) Name() string { return a.cfg.Name }

// Direction returns the current drive state.
func (a *Axis) Direction() Direction { return a.dir }

// LastChange returns when the last direction command was applied.
func (a *Axis) LastChange() time.Time { return a.lastChange }

// Forward drives line A high. It is a no-op returning false while the ramp
// interval since the last applied direction command has not elapsed.
func (a *Axis) Forward() bool {
	return a.move(Forward)
}

// Backward drives line B high, rate limited like Forward.
func (a *Axis) Backward() bool {
	return a.move(Backward)
}

// Stop brakes immediately: both lines low, no rate limit.
func (a *Axis) Stop() {
	a.write(gpio.Low, gpio.Low)
	if a.dir != Stopped {
		debug.Axis(a.cfg.Name, Stopped.String(), true)
	}
	a.dir = Stopped
}

func (a *Axis) move(dir Direction) bool {
	now := a.now()
	if !a.lastChange.IsZero() && now.Sub(a.lastChange) < a.cfg.RampInterval {
		debug.Axis(a.cfg.Name, dir.String(), false)
		return false
	}

	if dir == Forward {
		a.write(gpio.High, gpio.Low)
	} else {
		a.write(gpio.Low, gpio.High)
	}
	a.dir = dir
	a.lastChange = now
	debug.Axis(a.cfg.Name, dir.String(), true)
	return true
}

// write sets both lines, lowering before raising so A and B are never high together.
func (a *Axis) write(levelA, levelB gpio.Level) {
	first, second := a.cfg.PinA, a.cfg.PinB
	firstLevel, secondLevel := levelA, levelB
	if levelA == gpio.High {
		first, second = a.cfg.PinB, a.cfg.PinA
		firstLevel, secondLevel = levelB, levelA
	}
	if err := a.gpio.WritePin(first, firstLevel); err != nil {
		debug.Error(err)
	}
	if err := a.gpio.WritePin(second, secondLevel); err != nil {
		debug.Error(err)
	}
}
