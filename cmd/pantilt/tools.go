package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cjeanneret/PanTilt/internal/hw/sensor"
	"github.com/cjeanneret/PanTilt/internal/hw/servo"
	"github.com/cjeanneret/PanTilt/internal/p2p"
)

func newServoCmd(g *globalFlags) *cobra.Command {
	var hold time.Duration
	cmd := &cobra.Command{
		Use:   "servo <angle>",
		Short: "move the orientation servo to an angle (0-180, clamped)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			angle, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("angle: %w", err)
			}
			cfg, err := g.loadConfig(0)
			if err != nil {
				return err
			}
			hw, err := openHardware(cfg)
			if err != nil {
				return err
			}
			defer closeHardware(hw)

			hw.servo.SetAngle(angle)
			fmt.Fprintf(cmd.OutOrStdout(), "servo -> %d° (pulse %v)\n", hw.servo.Angle(), servo.PulseWidth(angle))
			// Keep the pulse train running long enough for the horn to get there.
			time.Sleep(hold)
			return nil
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", time.Second, "how long to keep driving the servo before exiting")
	return cmd
}

func newSensorsCmd(g *globalFlags) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "sensors",
		Short: "print live IR sensor samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(0)
			if err != nil {
				return err
			}
			hw, err := openHardware(cfg)
			if err != nil {
				return err
			}
			defer closeHardware(hw)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return dumpSensors(ctx, cmd.OutOrStdout(), hw.sensors, interval, count)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "sampling interval")
	cmd.Flags().IntVar(&count, "count", 0, "number of samples, 0 = until interrupted")
	return cmd
}

type sensorReader interface {
	Read() (sensor.Pair, error)
}

var (
	detectedColor = color.New(color.FgGreen, color.Bold)
	clearColor    = color.New(color.FgHiBlack)
)

func sideLabel(name string, detected bool) string {
	if detected {
		return detectedColor.Sprintf("%s:detected", name)
	}
	return clearColor.Sprintf("%s:clear   ", name)
}

// dumpSensors prints one line per sample until ctx is done or count samples were printed.
func dumpSensors(ctx context.Context, w io.Writer, s sensorReader, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; count <= 0 || n < count; n++ {
		p, err := s.Read()
		if err != nil {
			return fmt.Errorf("read sensors: %w", err)
		}
		fmt.Fprintf(w, "%s  %s  %s\n", time.Now().Format("15:04:05.000"), sideLabel("L", p.Left), sideLabel("R", p.Right))
		if count > 0 && n == count-1 {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func newGPIOCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "gpio <name> <on|off>",
		Short: "drive a named output (e.g. Red)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(0)
			if err != nil {
				return err
			}
			hw, err := openHardware(cfg)
			if err != nil {
				return err
			}
			defer closeHardware(hw)

			if err := hw.outputs.Set(args[0], on); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %v\n", args[0], on)
			return nil
		},
	}
}

func newPeerCmd() *cobra.Command {
	peer := &cobra.Command{
		Use:   "peer",
		Short: "peer-to-peer link tools",
	}
	peer.AddCommand(&cobra.Command{
		Use:   "send <addr> <command>",
		Short: "send one peer frame (" + strings.Join(p2p.Verbs(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p2p.ParseVerb(args[1])
			if err != nil {
				return err
			}
			if err := p2p.Send(args[0], f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", args[1], args[0])
			return nil
		},
	})
	return peer
}
