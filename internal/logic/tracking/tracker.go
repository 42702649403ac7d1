// Package tracking follows an infrared beacon with the pan axis.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/motor"
	"github.com/cjeanneret/PanTilt/internal/hw/sensor"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/cjeanneret/PanTilt/internal/metrics"
)

// DefaultSearchDelay is how long a blind search pans before re-reading.
const DefaultSearchDelay = 100 * time.Millisecond

// Action is the decision taken for one sensor sample.
type Action int

const (
	Stop   Action = iota // both sensors see the target
	Left                 // only the left sensor sees it
	Right                // only the right sensor sees it
	Search               // nothing seen: pan left and look again
)

func (a Action) String() string {
	switch a {
	case Stop:
		return "stop"
	case Left:
		return "left"
	case Right:
		return "right"
	case Search:
		return "search"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decide maps a sensor sample to an action.
func Decide(p sensor.Pair) Action {
	switch {
	case p.Left && p.Right:
		return Stop
	case p.Left:
		return Left
	case p.Right:
		return Right
	default:
		return Search
	}
}

// SensorReader samples the IR pair.
type SensorReader interface {
	Read() (sensor.Pair, error)
}

// PanDriver commands the pan axis.
type PanDriver interface {
	MovePan(by motion.Authority, dir motor.Direction) (bool, error)
}

// Tracker runs tracking iterations.
type Tracker struct {
	sensors     SensorReader
	pan         PanDriver
	searchDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	metrics     *metrics.Metrics
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSearchDelay overrides DefaultSearchDelay.
func WithSearchDelay(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.searchDelay = d
		}
	}
}

// WithSleep replaces the blocking wait used by the blind search.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Tracker) { t.sleep = fn }
}

// WithMetrics records every decision.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// New creates a tracker.
func New(s SensorReader, pan PanDriver, opts ...Option) *Tracker {
	t := &Tracker{
		sensors:     s,
		pan:         pan,
		searchDelay: DefaultSearchDelay,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Step reads the sensors once and drives the pan axis. A blind search
// blocks for the search delay. On a sensor error the axis is stopped.
func (t *Tracker) Step(ctx context.Context) (Action, error) {
	p, err := t.read()
	if err != nil {
		_ = t.move(motor.Stopped)
		return Stop, err
	}

	action := Decide(p)
	t.metrics.TrackingAction(action.String())
	switch action {
	case Stop:
		err = t.move(motor.Stopped)
	case Left:
		err = t.move(motor.Forward)
	case Right:
		err = t.move(motor.Backward)
	case Search:
		err = t.search(ctx)
	}
	return action, err
}

func (t *Tracker) search(ctx context.Context) error {
	if err := t.move(motor.Forward); err != nil {
		return err
	}
	if err := t.sleep(ctx, t.searchDelay); err != nil {
		return t.move(motor.Stopped)
	}
	p, err := t.read()
	if err != nil {
		_ = t.move(motor.Stopped)
		return err
	}
	if p.Left || p.Right {
		debug.Live("Search found target (%s)", p)
		return t.move(motor.Stopped)
	}
	return nil
}

func (t *Tracker) read() (sensor.Pair, error) {
	p, err := t.sensors.Read()
	if err != nil {
		return p, fmt.Errorf("read IR sensors: %w", err)
	}
	debug.Sensors(p.Left, p.Right)
	return p, nil
}

func (t *Tracker) move(dir motor.Direction) error {
	if _, err := t.pan.MovePan(motion.Auto, dir); err != nil {
		return fmt.Errorf("tracking pan %v: %w", dir, err)
	}
	return nil
}
