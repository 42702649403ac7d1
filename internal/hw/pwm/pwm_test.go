package pwm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	cases := []struct {
		name       string
		width      time.Duration
		resolution int64
		want       int64
	}{
		{"zero", 0, 20000, 0},
		{"negative", -time.Millisecond, 20000, 0},
		{"min_servo_us", 500 * time.Microsecond, 20000, 500},
		{"max_servo_us", 2500 * time.Microsecond, 20000, 2500},
		{"min_servo_pca", 500 * time.Microsecond, 4096, 102},
		{"max_servo_pca", 2500 * time.Microsecond, 4096, 512},
		{"full_frame", FramePeriod, 4096, 4096},
		{"over_frame", 2 * FramePeriod, 4096, 4096},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, counts(tc.width, tc.resolution))
		})
	}
}

func TestNew_Mock(t *testing.T) {
	ch, err := New(Config{Backend: BackendMock})
	require.NoError(t, err)

	mock, ok := ch.(*MockChannel)
	require.True(t, ok)
	require.NoError(t, mock.SetPulseWidth(1500*time.Microsecond))
	require.Equal(t, 1500*time.Microsecond, mock.PulseWidth())
	require.Equal(t, 1, mock.Writes())
	require.NoError(t, ch.Close())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: "servoblaster"})
	require.Error(t, err)
}

func TestNewRPiChannel_RejectsNonPWMPin(t *testing.T) {
	_, err := NewRPiChannel(4)
	require.Error(t, err)
}

func TestNewPCA9685Channel_RejectsBadChannel(t *testing.T) {
	_, err := NewPCA9685Channel("", 0x40, 16)
	require.Error(t, err)
}

func TestFramePeriod(t *testing.T) {
	require.Equal(t, 20*time.Millisecond, FramePeriod)
	require.Equal(t, uint32(20000), rpiCycle)
}
