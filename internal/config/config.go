package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes caps the size of a configuration file.
const MaxConfigFileBytes = 64 * 1024

// MotorConfig holds the two H-bridge control lines of a DC motor (BCM numbering).
type MotorConfig struct {
	PinA int `yaml:"pin_a"` // high for forward (pan left / tilt up)
	PinB int `yaml:"pin_b"` // high for backward (pan right / tilt down)
}

// ServoConfig selects the PWM back-end driving the orientation servo.
type ServoConfig struct {
	Backend   string `yaml:"backend"`    // "rpio", "pca9685" or "mock"
	Pin       int    `yaml:"pin"`        // rpio: hardware PWM pin (12, 13, 18, 19)
	I2CBus    string `yaml:"i2c_bus"`    // pca9685: bus name, "" = first available
	I2CAddr   uint16 `yaml:"i2c_addr"`   // pca9685: device address, 0 = 0x40
	Channel   int    `yaml:"channel"`    // pca9685: output channel 0-15
	BootAngle *int   `yaml:"boot_angle"` // angle applied at startup (default 180)
}

// SensorsConfig holds the active-low IR sensor inputs.
type SensorsConfig struct {
	LeftPin  int `yaml:"left_pin"`
	RightPin int `yaml:"right_pin"`
}

// PeerConfig configures the peer-to-peer UDP link.
type PeerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Enabled    *bool  `yaml:"enabled"` // listen at boot (default true)
}

// WebConfig configures the HTTP/WebSocket parameter service.
type WebConfig struct {
	Port int `yaml:"port"` // 0 = disabled unless --web is given
}

// DefaultsConfig contains generic parameters (timings, queue, debug).
type DefaultsConfig struct {
	RampMs        int  `yaml:"ramp_ms"`         // minimum delay between two applied motor direction commands
	LoopPeriodMs  int  `yaml:"loop_period_ms"`  // tracking loop period
	SearchDelayMs int  `yaml:"search_delay_ms"` // blind search pan time before re-reading sensors
	QueueSize     int  `yaml:"queue_size"`      // pending external commands before dropping
	DebugLevel    int  `yaml:"debug_level"`     // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO      bool `yaml:"mock_gpio"`       // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	PanMotor     MotorConfig    `yaml:"pan_motor"`
	TiltMotor    MotorConfig    `yaml:"tilt_motor"`
	Servo        ServoConfig    `yaml:"servo"`
	Sensors      SensorsConfig  `yaml:"sensors"`
	NamedOutputs map[string]int `yaml:"named_outputs"`
	Peer         PeerConfig     `yaml:"peer"`
	Web          WebConfig      `yaml:"web"`
	Defaults     DefaultsConfig `yaml:"defaults"`
}

// Default returns the wiring of the reference board.
func Default() *Config {
	cfg := &Config{
		PanMotor:  MotorConfig{PinA: 12, PinB: 13},
		TiltMotor: MotorConfig{PinA: 10, PinB: 11},
		Servo:     ServoConfig{Backend: "rpio", Pin: 18},
		Sensors:   SensorsConfig{LeftPin: 1, RightPin: 0},
	}
	cfg.applyDefaults()
	return cfg
}

// ValidateConfigPath accepts only .yaml files located directly in a
// directory named "configs", and rejects any parent traversal.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	cfg := Default()
	// Named outputs replace the default map instead of merging into it.
	cfg.NamedOutputs = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Servo.Backend == "" {
		c.Servo.Backend = "rpio"
	}
	if c.Servo.BootAngle == nil {
		a := 180
		c.Servo.BootAngle = &a
	}
	if c.NamedOutputs == nil {
		c.NamedOutputs = map[string]int{"Red": 5}
	}
	if c.Peer.ListenAddr == "" {
		c.Peer.ListenAddr = ":4210"
	}
	if c.Peer.Enabled == nil {
		on := true
		c.Peer.Enabled = &on
	}
	if c.Defaults.RampMs <= 0 {
		c.Defaults.RampMs = 30
	}
	if c.Defaults.LoopPeriodMs <= 0 {
		c.Defaults.LoopPeriodMs = 50
	}
	if c.Defaults.SearchDelayMs <= 0 {
		c.Defaults.SearchDelayMs = 100
	}
	if c.Defaults.QueueSize <= 0 {
		c.Defaults.QueueSize = 32
	}
}

// Validate checks pin assignments and ranges.
func (c *Config) Validate() error {
	outputs := map[int]string{}
	claim := func(pin int, name string) error {
		if pin < 0 || pin > 27 {
			return fmt.Errorf("%s: pin %d out of range 0-27", name, pin)
		}
		if other, ok := outputs[pin]; ok {
			return fmt.Errorf("%s: pin %d already used by %s", name, pin, other)
		}
		outputs[pin] = name
		return nil
	}
	pins := []struct {
		pin  int
		name string
	}{
		{c.PanMotor.PinA, "pan_motor.pin_a"},
		{c.PanMotor.PinB, "pan_motor.pin_b"},
		{c.TiltMotor.PinA, "tilt_motor.pin_a"},
		{c.TiltMotor.PinB, "tilt_motor.pin_b"},
		{c.Sensors.LeftPin, "sensors.left_pin"},
		{c.Sensors.RightPin, "sensors.right_pin"},
	}
	for _, p := range pins {
		if err := claim(p.pin, p.name); err != nil {
			return err
		}
	}
	for name, pin := range c.NamedOutputs {
		if name == "" {
			return errors.New("named_outputs: empty name")
		}
		if err := claim(pin, "named_outputs."+name); err != nil {
			return err
		}
	}

	switch c.Servo.Backend {
	case "rpio":
		if err := claim(c.Servo.Pin, "servo.pin"); err != nil {
			return err
		}
	case "pca9685":
		if c.Servo.Channel < 0 || c.Servo.Channel > 15 {
			return fmt.Errorf("servo.channel must be between 0 and 15, got %d", c.Servo.Channel)
		}
	case "mock":
	default:
		return fmt.Errorf("servo.backend %q is not one of rpio, pca9685, mock", c.Servo.Backend)
	}
	if a := *c.Servo.BootAngle; a < 0 || a > 180 {
		return fmt.Errorf("servo.boot_angle must be between 0 and 180, got %d", a)
	}

	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 0 and 65535, got %d", c.Web.Port)
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// RampInterval returns the minimum delay between two applied direction commands on an axis.
func (c *Config) RampInterval() time.Duration {
	return time.Duration(c.Defaults.RampMs) * time.Millisecond
}

// LoopPeriod returns the tracking loop period.
func (c *Config) LoopPeriod() time.Duration {
	return time.Duration(c.Defaults.LoopPeriodMs) * time.Millisecond
}

// SearchDelay returns how long a blind search pans before re-reading.
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.Defaults.SearchDelayMs) * time.Millisecond
}

// PeerEnabled reports whether the peer link listens at boot.
func (c *Config) PeerEnabled() bool {
	return c.Peer.Enabled == nil || *c.Peer.Enabled
}
