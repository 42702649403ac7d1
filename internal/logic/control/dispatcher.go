package control

//go:generate mockgen -source=dispatcher.go -destination=mock_dispatcher_test.go -package=control

import (
	"errors"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/hw/motor"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/cjeanneret/PanTilt/internal/metrics"
)

// Command outcomes reported to metrics.
const (
	resultApplied = "applied"
	resultIgnored = "ignored"
	resultInvalid = "invalid"
	resultDenied  = "denied"
)

// Publisher acknowledges a parameter value back to remote clients.
type Publisher interface {
	Publish(name string, v cloud.Value) error
}

// PeerLink is the peer-to-peer receive path.
type PeerLink interface {
	Enable() error
	Disable() error
}

// Dispatcher applies external parameter writes to the mount.
type Dispatcher struct {
	state   *State
	motion  *motion.Controller
	pub     Publisher
	peer    PeerLink
	metrics *metrics.Metrics
}

// NewDispatcher wires a dispatcher. pub and peer may be nil.
func NewDispatcher(state *State, ctrl *motion.Controller, pub Publisher, peer PeerLink, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		state:   state,
		motion:  ctrl,
		pub:     pub,
		peer:    peer,
		metrics: m,
	}
}

// Handle processes one command. It never fails: unusable commands are
// logged and counted.
func (d *Dispatcher) Handle(cmd Command) {
	debug.Command(cmd.Source.String(), cmd.Name, cmd.Value)
	result := d.handle(cmd)
	d.metrics.Command(cmd.Source.String(), cmd.Name, result)
}

func (d *Dispatcher) handle(cmd Command) string {
	mode := d.state.Mode()

	switch cmd.Source {
	case SourcePeer:
		if mode.UseCloudSource {
			debug.Verbose("Peer command %s ignored: cloud is master", cmd.Name)
			return resultIgnored
		}
		if cmd.Name == cloud.Master || cmd.Name == cloud.Follow {
			debug.Verbose("Peer cannot change %s", cmd.Name)
			return resultIgnored
		}
	default:
		if cmd.Name != cloud.Master && !mode.UseCloudSource {
			debug.Verbose("Cloud command %s ignored: peer is master", cmd.Name)
			return resultIgnored
		}
	}

	switch cmd.Name {
	case cloud.Master:
		if cmd.Value.Kind != cloud.KindBool {
			return d.invalid(cmd)
		}
		d.setMaster(cmd.Value.B)
	case cloud.Follow:
		if cmd.Value.Kind != cloud.KindBool {
			return d.invalid(cmd)
		}
		d.setFollow(cmd.Value.B)
	case cloud.Pan, cloud.Tilt:
		if cmd.Value.Kind != cloud.KindInt {
			return d.invalid(cmd)
		}
		if !d.joystick(cmd.Name, cmd.Value.I) {
			// Still re-center the client slider.
			d.echo(cmd, cloud.Int(cloud.Center))
			return resultDenied
		}
		d.echo(cmd, cloud.Int(cloud.Center))
		return resultApplied
	case cloud.Orientation:
		if cmd.Value.Kind != cloud.KindString {
			return d.invalid(cmd)
		}
		d.motion.SetOrientation(motion.Orientation(cmd.Value.S))
	default:
		debug.Verbose("Unknown parameter %q ignored", cmd.Name)
		return resultIgnored
	}

	d.echo(cmd, cmd.Value)
	return resultApplied
}

func (d *Dispatcher) invalid(cmd Command) string {
	debug.Verbose("Parameter %s: unexpected %v value %v", cmd.Name, cmd.Value.Kind, cmd.Value)
	return resultInvalid
}

func (d *Dispatcher) setMaster(cloudMaster bool) {
	if d.state.SetUseCloudSource(cloudMaster) {
		debug.Mode(cloud.Master, cloudMaster)
	}
	d.metrics.Mode("use_cloud_source", cloudMaster)
	if cloudMaster {
		d.disablePeer()
	} else {
		d.enablePeer()
	}
}

func (d *Dispatcher) setFollow(follow bool) {
	if d.state.SetAutoTracking(follow) {
		debug.Mode(cloud.Follow, follow)
		// Pan authority changes hands; never leave the motor running.
		d.motion.StopPan()
	}
	d.metrics.Mode("auto_tracking", follow)
	if follow {
		d.disablePeer()
	} else {
		d.enablePeer()
	}
}

// joystick maps a [0,4095] stick position to a direction with a deadband
// around the center. It reports false when the axis is not ours to drive.
func (d *Dispatcher) joystick(name string, v int) bool {
	dir := StickDirection(v)
	var err error
	if name == cloud.Pan {
		_, err = d.motion.MovePan(motion.Manual, dir)
	} else {
		_, err = d.motion.MoveTilt(motion.Manual, dir)
	}
	if errors.Is(err, motion.ErrNoAuthority) {
		debug.Verbose("%s %v denied: tracker owns the axis", name, dir)
		return false
	}
	return true
}

// StickDirection converts a stick position into an axis direction.
// Below center-deadband is Forward (pan left, tilt up), above
// center+deadband is Backward (pan right, tilt down).
func StickDirection(v int) motor.Direction {
	switch {
	case v < cloud.Center-cloud.Deadband:
		return motor.Forward
	case v > cloud.Center+cloud.Deadband:
		return motor.Backward
	default:
		return motor.Stopped
	}
}

func (d *Dispatcher) echo(cmd Command, v cloud.Value) {
	if cmd.Source != SourceCloud || d.pub == nil {
		return
	}
	if err := d.pub.Publish(cmd.Name, v); err != nil {
		debug.Error(err)
	}
}

func (d *Dispatcher) enablePeer() {
	if d.peer == nil {
		return
	}
	if err := d.peer.Enable(); err != nil {
		debug.Error(err)
	}
}

func (d *Dispatcher) disablePeer() {
	if d.peer == nil {
		return
	}
	if err := d.peer.Disable(); err != nil {
		debug.Error(err)
	}
}
