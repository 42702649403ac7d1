// Package p2p is the peer-to-peer fallback link: a remote handset sends
// small UDP datagrams that are turned into peer-source commands.
package p2p

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/logic/control"
)

// ErrBadFrame is returned for datagrams that are not valid frames.
var ErrBadFrame = errors.New("bad peer frame")

// FrameSize is the length of every frame on the wire.
const FrameSize = 4

var magic = [2]byte{'P', 'T'}

// Kind selects what a frame controls.
type Kind byte

const (
	KindPan         Kind = 1
	KindTilt        Kind = 2
	KindOrientation Kind = 3
	KindStop        Kind = 4
)

// Axis arguments. For tilt, ArgForward is up and ArgBackward is down;
// for pan they are left and right.
const (
	ArgStop     byte = 0
	ArgForward  byte = 1
	ArgBackward byte = 2
)

// Orientation arguments.
const (
	ArgPortrait  byte = 0
	ArgLandscape byte = 1
)

// Frame is one decoded datagram.
type Frame struct {
	Kind Kind
	Arg  byte
}

// Marshal encodes f.
func (f Frame) Marshal() []byte {
	return []byte{magic[0], magic[1], byte(f.Kind), f.Arg}
}

// ParseFrame decodes and validates a datagram.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) != FrameSize {
		return Frame{}, fmt.Errorf("%w: length %d", ErrBadFrame, len(b))
	}
	if b[0] != magic[0] || b[1] != magic[1] {
		return Frame{}, fmt.Errorf("%w: magic % x", ErrBadFrame, b[:2])
	}
	f := Frame{Kind: Kind(b[2]), Arg: b[3]}
	switch f.Kind {
	case KindPan, KindTilt:
		if f.Arg > ArgBackward {
			return Frame{}, fmt.Errorf("%w: axis argument %d", ErrBadFrame, f.Arg)
		}
	case KindOrientation:
		if f.Arg > ArgLandscape {
			return Frame{}, fmt.Errorf("%w: orientation argument %d", ErrBadFrame, f.Arg)
		}
	case KindStop:
	default:
		return Frame{}, fmt.Errorf("%w: kind %d", ErrBadFrame, f.Kind)
	}
	return f, nil
}

// stick converts an axis argument into the joystick position the
// dispatcher understands.
func stick(arg byte) cloud.Value {
	switch arg {
	case ArgForward:
		return cloud.Int(cloud.AxisMin)
	case ArgBackward:
		return cloud.Int(cloud.AxisMax)
	default:
		return cloud.Int(cloud.Center)
	}
}

// Commands converts f into peer-source commands.
func (f Frame) Commands() []control.Command {
	peer := func(name string, v cloud.Value) control.Command {
		return control.Command{Source: control.SourcePeer, Name: name, Value: v}
	}
	switch f.Kind {
	case KindPan:
		return []control.Command{peer(cloud.Pan, stick(f.Arg))}
	case KindTilt:
		return []control.Command{peer(cloud.Tilt, stick(f.Arg))}
	case KindOrientation:
		o := "PORTRAIT"
		if f.Arg == ArgLandscape {
			o = "LANDSCAPE"
		}
		return []control.Command{peer(cloud.Orientation, cloud.String(o))}
	case KindStop:
		return []control.Command{
			peer(cloud.Pan, cloud.Int(cloud.Center)),
			peer(cloud.Tilt, cloud.Int(cloud.Center)),
		}
	default:
		return nil
	}
}

var verbs = map[string]Frame{
	"left":      {KindPan, ArgForward},
	"right":     {KindPan, ArgBackward},
	"pan-stop":  {KindPan, ArgStop},
	"up":        {KindTilt, ArgForward},
	"down":      {KindTilt, ArgBackward},
	"tilt-stop": {KindTilt, ArgStop},
	"portrait":  {KindOrientation, ArgPortrait},
	"landscape": {KindOrientation, ArgLandscape},
	"stop":      {KindStop, 0},
}

// ParseVerb maps a command-line word (left, right, up, down, stop, ...) to a frame.
func ParseVerb(s string) (Frame, error) {
	f, ok := verbs[strings.ToLower(s)]
	if !ok {
		return Frame{}, fmt.Errorf("unknown peer command %q", s)
	}
	return f, nil
}

// Verbs lists the words accepted by ParseVerb.
func Verbs() []string {
	return []string{"left", "right", "pan-stop", "up", "down", "tilt-stop", "portrait", "landscape", "stop"}
}
