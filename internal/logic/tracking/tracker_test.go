package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cjeanneret/PanTilt/internal/hw/motor"
	"github.com/cjeanneret/PanTilt/internal/hw/sensor"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/stretchr/testify/require"
)

type scriptedSensors struct {
	samples []sensor.Pair
	err     error
	reads   int
}

func (s *scriptedSensors) Read() (sensor.Pair, error) {
	if s.err != nil {
		return sensor.Pair{}, s.err
	}
	p := s.samples[s.reads]
	if s.reads < len(s.samples)-1 {
		s.reads++
	}
	return p, nil
}

type recordingPan struct {
	moves []motor.Direction
	auths []motion.Authority
	err   error
}

func (r *recordingPan) MovePan(by motion.Authority, dir motor.Direction) (bool, error) {
	r.auths = append(r.auths, by)
	if r.err != nil {
		return false, r.err
	}
	r.moves = append(r.moves, dir)
	return true, nil
}

func noSleep(slept *time.Duration) Option {
	return WithSleep(func(_ context.Context, d time.Duration) error {
		*slept += d
		return nil
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		pair sensor.Pair
		want Action
	}{
		{sensor.Pair{Left: true, Right: true}, Stop},
		{sensor.Pair{Left: true, Right: false}, Left},
		{sensor.Pair{Left: false, Right: true}, Right},
		{sensor.Pair{Left: false, Right: false}, Search},
	}
	for _, tt := range tests {
		t.Run(tt.pair.String(), func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.pair))
		})
	}
}

func TestStep_Directions(t *testing.T) {
	tests := []struct {
		pair sensor.Pair
		want motor.Direction
	}{
		{sensor.Pair{Left: true, Right: true}, motor.Stopped},
		{sensor.Pair{Left: true}, motor.Forward},
		{sensor.Pair{Right: true}, motor.Backward},
	}
	for _, tt := range tests {
		t.Run(tt.pair.String(), func(t *testing.T) {
			pan := &recordingPan{}
			var slept time.Duration
			tr := New(&scriptedSensors{samples: []sensor.Pair{tt.pair}}, pan, noSleep(&slept))

			_, err := tr.Step(context.Background())
			require.NoError(t, err)
			require.Equal(t, []motor.Direction{tt.want}, pan.moves)
			require.Equal(t, []motion.Authority{motion.Auto}, pan.auths)
			require.Zero(t, slept)
		})
	}
}

func TestStep_SearchFindsTarget(t *testing.T) {
	pan := &recordingPan{}
	var slept time.Duration
	s := &scriptedSensors{samples: []sensor.Pair{{}, {Right: true}}}
	tr := New(s, pan, noSleep(&slept))

	action, err := tr.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, Search, action)
	require.Equal(t, []motor.Direction{motor.Forward, motor.Stopped}, pan.moves)
	require.Equal(t, DefaultSearchDelay, slept)
}

func TestStep_SearchKeepsPanning(t *testing.T) {
	pan := &recordingPan{}
	var slept time.Duration
	tr := New(&scriptedSensors{samples: []sensor.Pair{{}, {}}}, pan,
		noSleep(&slept), WithSearchDelay(20*time.Millisecond))

	_, err := tr.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, []motor.Direction{motor.Forward}, pan.moves)
	require.Equal(t, 20*time.Millisecond, slept)
}

func TestStep_SearchCancelled(t *testing.T) {
	pan := &recordingPan{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := New(&scriptedSensors{samples: []sensor.Pair{{}}}, pan)

	_, err := tr.Step(ctx)
	require.NoError(t, err)
	require.Equal(t, []motor.Direction{motor.Forward, motor.Stopped}, pan.moves)
}

func TestStep_SensorErrorStopsPan(t *testing.T) {
	pan := &recordingPan{}
	tr := New(&scriptedSensors{err: errors.New("bus error")}, pan)

	_, err := tr.Step(context.Background())
	require.ErrorContains(t, err, "bus error")
	require.Equal(t, []motor.Direction{motor.Stopped}, pan.moves)
}

func TestStep_Denied(t *testing.T) {
	pan := &recordingPan{err: motion.ErrNoAuthority}
	tr := New(&scriptedSensors{samples: []sensor.Pair{{Left: true}}}, pan)

	_, err := tr.Step(context.Background())
	require.ErrorIs(t, err, motion.ErrNoAuthority)
}
