package main

import (
	"errors"
	"fmt"

	"github.com/cjeanneret/PanTilt/internal/config"
	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/gpio"
	"github.com/cjeanneret/PanTilt/internal/hw/motor"
	"github.com/cjeanneret/PanTilt/internal/hw/namedio"
	"github.com/cjeanneret/PanTilt/internal/hw/pwm"
	"github.com/cjeanneret/PanTilt/internal/hw/sensor"
	"github.com/cjeanneret/PanTilt/internal/hw/servo"
)

// hardware is every device of the mount, built from config.
type hardware struct {
	gpio    gpio.Driver
	pwm     pwm.Channel
	pan     *motor.Axis
	tilt    *motor.Axis
	servo   *servo.Servo
	sensors *sensor.IRPair
	outputs *namedio.Outputs
}

// servoBackend returns the PWM backend to use. Hardware PWM needs the real
// GPIO mapping, so mock GPIO forces the mock PWM unless an I2C board is used.
func servoBackend(cfg *config.Config) string {
	if cfg.Defaults.MockGPIO && cfg.Servo.Backend == pwm.BackendRPi {
		return pwm.BackendMock
	}
	return cfg.Servo.Backend
}

func openHardware(cfg *config.Config) (*hardware, error) {
	debug.Step(1, "Initializing GPIO driver")
	g, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return nil, fmt.Errorf("init GPIO: %w", err)
	}

	debug.Step(2, "Initializing servo PWM")
	ch, err := pwm.New(pwm.Config{
		Backend: servoBackend(cfg),
		Pin:     cfg.Servo.Pin,
		I2CBus:  cfg.Servo.I2CBus,
		I2CAddr: cfg.Servo.I2CAddr,
		Channel: cfg.Servo.Channel,
	})
	if err != nil {
		_ = g.Close()
		return nil, fmt.Errorf("init servo PWM: %w", err)
	}
	debug.PrintStruct("Servo config", cfg.Servo)

	debug.Step(3, "Initializing motors")
	pan := motor.NewAxis(g, motor.Config{
		Name:         "pan",
		PinA:         cfg.PanMotor.PinA,
		PinB:         cfg.PanMotor.PinB,
		RampInterval: cfg.RampInterval(),
	})
	debug.PrintStruct("Pan motor config", cfg.PanMotor)
	tilt := motor.NewAxis(g, motor.Config{
		Name:         "tilt",
		PinA:         cfg.TiltMotor.PinA,
		PinB:         cfg.TiltMotor.PinB,
		RampInterval: cfg.RampInterval(),
	})
	debug.PrintStruct("Tilt motor config", cfg.TiltMotor)

	debug.Step(4, "Initializing IR sensors and named outputs")
	ir := sensor.NewIRPair(g, sensor.Config{
		LeftPin:  cfg.Sensors.LeftPin,
		RightPin: cfg.Sensors.RightPin,
	})
	outputs := namedio.New(g, cfg.NamedOutputs)
	debug.Value("Named outputs", outputs.Names())

	return &hardware{
		gpio:    g,
		pwm:     ch,
		pan:     pan,
		tilt:    tilt,
		servo:   servo.New(ch),
		sensors: ir,
		outputs: outputs,
	}, nil
}

// Close brakes both motors and releases the PWM channel and GPIO.
func (h *hardware) Close() error {
	h.pan.Stop()
	h.tilt.Stop()
	return errors.Join(h.pwm.Close(), h.gpio.Close())
}

func closeHardware(h *hardware) {
	if err := h.Close(); err != nil {
		debug.Error(fmt.Errorf("closing hardware: %w", err))
	}
}
