package control

import (
	"context"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/cjeanneret/PanTilt/internal/logic/tracking"
)

// DefaultLoopPeriod is the tracking loop period.
const DefaultLoopPeriod = 50 * time.Millisecond

// Tracker performs one autonomous tracking iteration.
type Tracker interface {
	Step(ctx context.Context) (tracking.Action, error)
}

// Runner is the only goroutine that touches the actuators: it drains the
// command queue and ticks the tracker while AutoTracking is set.
type Runner struct {
	queue      *Queue
	dispatcher *Dispatcher
	tracker    Tracker
	state      *State
	motion     *motion.Controller
	period     time.Duration
}

// NewRunner wires the control loop. A non-positive period uses DefaultLoopPeriod.
func NewRunner(q *Queue, d *Dispatcher, t Tracker, s *State, ctrl *motion.Controller, period time.Duration) *Runner {
	if period <= 0 {
		period = DefaultLoopPeriod
	}
	return &Runner{
		queue:      q,
		dispatcher: d,
		tracker:    t,
		state:      s,
		motion:     ctrl,
		period:     period,
	}
}

// Run blocks until ctx is done. Both axes are stopped on return.
func (r *Runner) Run(ctx context.Context) error {
	debug.Info("Control loop started (tracking period %v)", r.period)
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	defer func() {
		r.motion.StopAll()
		debug.Info("Control loop stopped, motors braked")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-r.queue.C():
			r.dispatcher.Handle(cmd)
		case <-ticker.C:
			if r.tracker == nil || !r.state.Mode().AutoTracking {
				continue
			}
			if _, err := r.tracker.Step(ctx); err != nil && ctx.Err() == nil {
				debug.Error(err)
			}
		}
	}
}
