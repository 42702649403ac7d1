package servo

import (
	"sync"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/pwm"
)

const (
	MinAngle = 0
	MaxAngle = 180

	MinPulse = 500 * time.Microsecond
	MaxPulse = 2500 * time.Microsecond
)

// ClampAngle limits angle to [MinAngle, MaxAngle].
func ClampAngle(angle int) int {
	if angle < MinAngle {
		return MinAngle
	}
	if angle > MaxAngle {
		return MaxAngle
	}
	return angle
}

// PulseWidth maps an angle to its pulse width: angle*2000/180 + 500 µs.
// Integer division, so 90° gives 1500 µs and 1° gives 511 µs.
func PulseWidth(angle int) time.Duration {
	angle = ClampAngle(angle)
	us := angle*int((MaxPulse-MinPulse)/time.Microsecond)/MaxAngle + int(MinPulse/time.Microsecond)
	return time.Duration(us) * time.Microsecond
}

// Servo positions a hobby servo on one PWM channel.
type Servo struct {
	mu    sync.Mutex
	ch    pwm.Channel
	angle int
}

func New(ch pwm.Channel) *Servo {
	return &Servo{ch: ch}
}

// SetAngle clamps angle and programs the matching pulse width.
// Out-of-range input is clamped silently; a failed PWM write is only logged.
func (s *Servo) SetAngle(angle int) {
	angle = ClampAngle(angle)
	pulse := PulseWidth(angle)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ch.SetPulseWidth(pulse); err != nil {
		debug.Error(err)
	}
	s.angle = angle
	debug.Servo(angle, pulse.Microseconds())
}

// Angle returns the last commanded angle.
func (s *Servo) Angle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}
