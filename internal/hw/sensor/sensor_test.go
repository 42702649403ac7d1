package sensor

import (
	"errors"
	"testing"

	"github.com/cjeanneret/PanTilt/internal/hw/gpio"
	"github.com/stretchr/testify/require"
)

const (
	leftPin  = 1
	rightPin = 0
)

func TestIRPair_ActiveLow(t *testing.T) {
	cases := []struct {
		name        string
		left, right gpio.Level
		want        Pair
	}{
		{"both_detected", gpio.Low, gpio.Low, Pair{true, true}},
		{"left_only", gpio.Low, gpio.High, Pair{true, false}},
		{"right_only", gpio.High, gpio.Low, Pair{false, true}},
		{"both_clear", gpio.High, gpio.High, Pair{false, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			drv := &gpio.MockDriver{}
			s := NewIRPair(drv, Config{LeftPin: leftPin, RightPin: rightPin})
			drv.SetInput(leftPin, tc.left)
			drv.SetInput(rightPin, tc.right)

			got, err := s.Read()
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestIRPair_NoCaching(t *testing.T) {
	drv := &gpio.MockDriver{}
	s := NewIRPair(drv, Config{LeftPin: leftPin, RightPin: rightPin})

	p, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, Pair{}, p, "idle pulled-up inputs read clear")

	drv.SetInput(rightPin, gpio.Low)
	p, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, Pair{Right: true}, p)
}

type brokenDriver struct{ gpio.MockDriver }

func (b *brokenDriver) ReadPin(pin int) (gpio.Level, error) {
	return gpio.Low, errors.New("read failed")
}

func TestIRPair_ReadError(t *testing.T) {
	s := NewIRPair(&brokenDriver{}, Config{LeftPin: leftPin, RightPin: rightPin})
	_, err := s.Read()
	require.Error(t, err)
}

func TestPair_String(t *testing.T) {
	require.Equal(t, "L=detected R=clear", Pair{Left: true}.String())
	require.Equal(t, "L=clear R=detected", Pair{Right: true}.String())
}
