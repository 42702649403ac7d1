package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cjeanneret/PanTilt/internal/config"
	"github.com/cjeanneret/PanTilt/internal/debug"
)

const defaultWebPort = 8080

// globalFlags are shared by every subcommand.
type globalFlags struct {
	cfgPath string
	verbose int
	mock    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "pantilt",
		Short:         "pan/tilt camera mount controller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.cfgPath, "config", filepath.Join("configs", "default.yaml"), "path to config file")
	pf.CountVarP(&g.verbose, "verbose", "v", "raise debug level (-v info ... -vvvv trace), overrides config")
	pf.BoolVar(&g.mock, "mock", false, "use mock GPIO and PWM (development)")

	root.AddCommand(
		newRunCmd(g),
		newServoCmd(g),
		newSensorsCmd(g),
		newGPIOCmd(g),
		newPeerCmd(),
	)
	return root
}

// overrides are CLI values that take precedence over the config file.
// Zero values mean "use config".
type overrides struct {
	DebugLevel int
	WebPort    int
	MockGPIO   bool
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.DebugLevel > 0 {
		cfg.Defaults.DebugLevel = min(o.DebugLevel, debug.LevelTrace)
	}
	if o.WebPort > 0 {
		cfg.Web.Port = o.WebPort
	}
	if o.MockGPIO {
		cfg.Defaults.MockGPIO = true
	}
}

// loadConfig reads the config file, applies CLI overrides and initializes debug output.
func (g *globalFlags) loadConfig(webPort int) (*config.Config, error) {
	cfg, err := config.Load(g.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, overrides{DebugLevel: g.verbose, WebPort: webPort, MockGPIO: g.mock})

	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", g.cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	return cfg, nil
}

// webPortFlag implements pflag.Value for --web: 0 = disabled,
// --web alone = 8080, --web=8980 = 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

var _ pflag.Value = (*webPortFlag)(nil)

func (w *webPortFlag) String() string {
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) Type() string { return "port" }

func (w *webPortFlag) port() int { return w.val }

// parseOnOff accepts on/off, true/false and 1/0.
func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "ON", "On":
		return true, nil
	case "off", "OFF", "Off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
