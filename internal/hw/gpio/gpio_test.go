package gpio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDriver_Mock(t *testing.T) {
	drv, err := NewDriver(true)
	require.NoError(t, err)
	require.IsType(t, &MockDriver{}, drv)
	require.NoError(t, drv.Close())
}

func TestMockDriver_InputDefaultsHigh(t *testing.T) {
	drv := &MockDriver{}
	require.NoError(t, drv.SetupPin(4, InputPullUp))

	l, err := drv.ReadPin(4)
	require.NoError(t, err)
	require.Equal(t, High, l, "pulled-up input idles high")
}

func TestMockDriver_SetInputAndWrite(t *testing.T) {
	drv := &MockDriver{}
	drv.SetInput(4, Low)
	l, err := drv.ReadPin(4)
	require.NoError(t, err)
	require.Equal(t, Low, l)

	require.NoError(t, drv.WritePin(12, High))
	require.Equal(t, High, drv.Level(12))
	require.NoError(t, drv.WritePin(12, Low))
	require.Equal(t, Low, drv.Level(12))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "HIGH", High.String())
	require.Equal(t, "LOW", Low.String())
}
