package motion

import (
	"errors"
	"sync"

	"github.com/cjeanneret/PanTilt/internal/hw/motor"
	"github.com/cjeanneret/PanTilt/internal/hw/servo"
	"github.com/cjeanneret/PanTilt/internal/metrics"
)

// ErrNoAuthority is returned when a controller commands an axis it does not own.
var ErrNoAuthority = errors.New("axis is under another controller's authority")

// Authority identifies who issues a motion command.
type Authority int

const (
	Manual Authority = iota // external commands (cloud, peer)
	Auto                    // autonomous tracking loop
)

func (a Authority) String() string {
	if a == Auto {
		return "auto"
	}
	return "manual"
}

// AxisID names a motor axis.
type AxisID string

const (
	Pan  AxisID = "pan"
	Tilt AxisID = "tilt"
)

// Gate decides which controller may command an axis.
type Gate interface {
	Allows(axis AxisID, by Authority) bool
}

// Orientation is the camera orientation selected through the servo.
type Orientation string

const (
	Portrait  Orientation = "PORTRAIT"
	Landscape Orientation = "LANDSCAPE"
)

// Angle returns the servo angle: 180 for landscape, 90 for anything else.
func (o Orientation) Angle() int {
	if o == Landscape {
		return 180
	}
	return 90
}

// Snapshot is a point-in-time view of the actuators.
type Snapshot struct {
	Pan        string `json:"pan"`
	Tilt       string `json:"tilt"`
	ServoAngle int    `json:"servo_angle"`
}

// Controller orchestrates pan/tilt movements and the orientation servo.
// It is the intermediate layer between the dispatcher/tracker and the
// hardware, and serializes every write behind one lock.
type Controller struct {
	mu      sync.Mutex
	pan     *motor.Axis
	tilt    *motor.Axis
	servo   *servo.Servo
	gate    Gate
	metrics *metrics.Metrics
}

// NewController wires the actuators. A nil gate allows every command.
func NewController(pan, tilt *motor.Axis, s *servo.Servo, gate Gate, m *metrics.Metrics) *Controller {
	return &Controller{
		pan:     pan,
		tilt:    tilt,
		servo:   s,
		gate:    gate,
		metrics: m,
	}
}

// MovePan drives the pan axis. Forward is left, Backward is right and
// Stopped brakes. The bool reports whether the hardware changed.
func (c *Controller) MovePan(by Authority, dir motor.Direction) (bool, error) {
	return c.move(Pan, c.pan, by, dir)
}

// MoveTilt drives the tilt axis. Forward is up, Backward is down.
func (c *Controller) MoveTilt(by Authority, dir motor.Direction) (bool, error) {
	return c.move(Tilt, c.tilt, by, dir)
}

func (c *Controller) move(id AxisID, axis *motor.Axis, by Authority, dir motor.Direction) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gate != nil && !c.gate.Allows(id, by) {
		c.metrics.AxisCommand(string(id), dir.String(), false)
		return false, ErrNoAuthority
	}

	applied := true
	switch dir {
	case motor.Forward:
		applied = axis.Forward()
	case motor.Backward:
		applied = axis.Backward()
	default:
		axis.Stop()
	}
	c.metrics.AxisCommand(string(id), dir.String(), applied)
	return applied, nil
}

// StopPan brakes the pan axis regardless of authority.
func (c *Controller) StopPan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan.Stop()
}

// StopAll brakes both axes regardless of authority.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan.Stop()
	c.tilt.Stop()
}

// SetOrientation positions the servo for o.
func (c *Controller) SetOrientation(o Orientation) {
	c.SetServoAngle(o.Angle())
}

// SetServoAngle positions the servo, clamping to [0,180].
func (c *Controller) SetServoAngle(angle int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.servo.SetAngle(angle)
	c.metrics.ServoAngle(c.servo.Angle())
}

// Snapshot returns the current actuator state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Pan:        c.pan.Direction().String(),
		Tilt:       c.tilt.Direction().String(),
		ServoAngle: c.servo.Angle(),
	}
}
