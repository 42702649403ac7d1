package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/config"
	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/logic/control"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/cjeanneret/PanTilt/internal/logic/tracking"
	"github.com/cjeanneret/PanTilt/internal/metrics"
	"github.com/cjeanneret/PanTilt/internal/p2p"
	"github.com/cjeanneret/PanTilt/internal/web"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	webPort := &webPortFlag{defaultPort: defaultWebPort}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the controller daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(webPort.port())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runDaemon(ctx, cfg)
		},
	}
	f := cmd.Flags().VarPF(webPort, "web", "", "serve the web interface; --web for port 8080, --web=8980 for a custom port")
	f.NoOptDefVal = fmt.Sprint(defaultWebPort)
	return cmd
}

// runDaemon wires the hardware, the control loop, the peer link and the
// web service, and blocks until ctx is cancelled or one of them fails.
func runDaemon(ctx context.Context, cfg *config.Config) error {
	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer closeHardware(hw)

	m := metrics.New()
	state := control.NewState()
	ctrl := motion.NewController(hw.pan, hw.tilt, hw.servo, state, m)
	ctrl.SetServoAngle(*cfg.Servo.BootAngle)

	queue := control.NewQueue(cfg.Defaults.QueueSize, m)
	broadcaster := web.NewStatusBroadcaster()
	hub := web.NewParamHub(cloud.StandardDevice(), queue.Submit, broadcaster)

	debug.Step(5, "Starting peer link")
	peer := p2p.NewReceiver(cfg.Peer.ListenAddr, queue.Submit, m)
	if cfg.PeerEnabled() {
		if err := peer.Enable(); err != nil {
			return err
		}
	}

	dispatcher := control.NewDispatcher(state, ctrl, hub, peer, m)
	tracker := tracking.New(hw.sensors, ctrl,
		tracking.WithSearchDelay(cfg.SearchDelay()),
		tracking.WithMetrics(m),
	)
	runner := control.NewRunner(queue, dispatcher, tracker, state, ctrl, cfg.LoopPeriod())

	var srv *web.Server
	if cfg.Web.Port > 0 {
		srv, err = web.NewServer(fmt.Sprintf(":%d", cfg.Web.Port), hub, broadcaster, web.Options{
			Status: func() web.Status {
				return web.Status{
					Mode:        state.Mode(),
					Motion:      ctrl.Snapshot(),
					PeerEnabled: peer.Enabled(),
					QueueDepth:  queue.Len(),
				}
			},
			Outputs: hw.outputs,
			Metrics: m.Handler(),
		})
		if err != nil {
			_ = peer.Close()
			return err
		}
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))
		defer debug.SetOutput(os.Stdout)
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return runner.Run(gctx)
	})
	grp.Go(func() error {
		<-gctx.Done()
		return peer.Close()
	})
	if srv != nil {
		grp.Go(func() error {
			return srv.Run(gctx)
		})
	}

	debug.Section("Running")
	debug.Info("Controller running (mode %+v)", state.Mode())
	return grp.Wait()
}
