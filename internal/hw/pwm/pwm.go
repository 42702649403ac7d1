// Package pwm drives a single servo-style pulse-width output at a fixed
// 50 Hz frame rate.
package pwm

import (
	"fmt"
	"sync"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
)

const (
	// FrameRate is the servo frame rate in Hz.
	FrameRate = 50
	// FramePeriod is the length of one frame (20 ms).
	FramePeriod = time.Second / FrameRate
)

// Channel is one pulse-width output.
type Channel interface {
	// SetPulseWidth programs the high time of every frame.
	SetPulseWidth(width time.Duration) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendMock    = "mock"
	BackendRPi     = "rpio"
	BackendPCA9685 = "pca9685"
)

// Config selects and configures a PWM backend.
type Config struct {
	Backend string
	Pin     int    // BCM pin for the rpio backend (12, 13, 18 or 19)
	I2CBus  string // I2C bus name for pca9685, "" = first available
	I2CAddr uint16 // pca9685 address, usually 0x40
	Channel int    // pca9685 output channel (0-15)
}

// New builds the channel described by cfg.
func New(cfg Config) (Channel, error) {
	switch cfg.Backend {
	case BackendMock, "":
		debug.Info("Using MOCK PWM channel")
		return &MockChannel{}, nil
	case BackendRPi:
		return NewRPiChannel(cfg.Pin)
	case BackendPCA9685:
		return NewPCA9685Channel(cfg.I2CBus, cfg.I2CAddr, cfg.Channel)
	default:
		return nil, fmt.Errorf("unsupported pwm backend: %s", cfg.Backend)
	}
}

// MockChannel records the last programmed pulse width.
type MockChannel struct {
	mu     sync.Mutex
	width  time.Duration
	writes int
}

func (m *MockChannel) SetPulseWidth(width time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width = width
	m.writes++
	debug.Trace("PWM (mock) pulse=%v", width)
	return nil
}

// PulseWidth returns the last programmed pulse width.
func (m *MockChannel) PulseWidth() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Writes returns how many times the channel was programmed.
func (m *MockChannel) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MockChannel) Close() error { return nil }

// counts converts a pulse width into ticks of a frame split in resolution ticks.
func counts(width time.Duration, resolution int64) int64 {
	if width <= 0 {
		return 0
	}
	if width >= FramePeriod {
		return resolution
	}
	return int64(width) * resolution / int64(FramePeriod)
}
