package debug

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, lvl int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(lvl)
	SetOutput(&buf)
	t.Cleanup(func() {
		Init(LevelOff)
		SetOutput(os.Stdout)
	})
	return &buf
}

func TestLevelGating(t *testing.T) {
	buf := captureOutput(t, LevelInfo)

	Info("visible %d", 1)
	Live("hidden live")
	Verbose("hidden verbose")
	GPIO("WritePin", 12, true)

	out := buf.String()
	require.Contains(t, out, "visible 1")
	require.NotContains(t, out, "hidden live")
	require.NotContains(t, out, "hidden verbose")
	require.NotContains(t, out, "[GPIO]")
}

func TestOffProducesNothing(t *testing.T) {
	buf := captureOutput(t, LevelOff)

	Info("nothing")
	Error(errors.New("boom"))
	Mode("Master", true)

	require.Empty(t, buf.String())
	require.Empty(t, Fmt("x=%d", 1))
}

func TestTraceShowsEverything(t *testing.T) {
	buf := captureOutput(t, LevelTrace)

	Axis("pan", "forward", true)
	Servo(90, 1500)
	Sensors(true, false)
	GPIO("ReadPin", 1, nil)

	out := buf.String()
	require.Contains(t, out, "Motor pan: forward")
	require.Contains(t, out, "pulse 1500 us")
	require.Contains(t, out, "IR sample")
	require.Contains(t, out, "[GPIO] ReadPin")
	require.True(t, IsEnabled(LevelVerbose))
	require.Equal(t, LevelTrace, Level())
}
