package sensor

import (
	"fmt"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/gpio"
)

// Pair is one sample of the two IR obstacle/line sensors.
// true means "detected".
type Pair struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

func (p Pair) String() string {
	return fmt.Sprintf("L=%s R=%s", state(p.Left), state(p.Right))
}

func state(detected bool) string {
	if detected {
		return "detected"
	}
	return "clear"
}

// Config holds the BCM pins of both sensors.
type Config struct {
	LeftPin  int
	RightPin int
}

// IRPair reads two active-low IR sensors: a low level means detected.
type IRPair struct {
	gpio gpio.Driver
	cfg  Config
}

// NewIRPair configures both pins as pulled-up inputs.
func NewIRPair(g gpio.Driver, cfg Config) *IRPair {
	_ = g.SetupPin(cfg.LeftPin, gpio.InputPullUp)
	_ = g.SetupPin(cfg.RightPin, gpio.InputPullUp)
	return &IRPair{gpio: g, cfg: cfg}
}

// Read samples both sensors. Nothing is cached.
func (s *IRPair) Read() (Pair, error) {
	left, err := s.gpio.ReadPin(s.cfg.LeftPin)
	if err != nil {
		return Pair{}, fmt.Errorf("read left IR (pin %d): %w", s.cfg.LeftPin, err)
	}
	right, err := s.gpio.ReadPin(s.cfg.RightPin)
	if err != nil {
		return Pair{}, fmt.Errorf("read right IR (pin %d): %w", s.cfg.RightPin, err)
	}
	p := Pair{Left: left == gpio.Low, Right: right == gpio.Low}
	debug.Sensors(p.Left, p.Right)
	return p, nil
}
