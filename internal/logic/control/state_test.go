package control

import (
	"testing"

	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/logic/motion"
	"github.com/stretchr/testify/require"
)

func TestState_Defaults(t *testing.T) {
	s := NewState()
	require.Equal(t, Mode{AutoTracking: false, UseCloudSource: true}, s.Mode())
}

func TestState_SettersReportChange(t *testing.T) {
	s := NewState()
	require.True(t, s.SetAutoTracking(true))
	require.False(t, s.SetAutoTracking(true))
	require.False(t, s.SetUseCloudSource(true))
	require.True(t, s.SetUseCloudSource(false))
}

func TestState_Allows(t *testing.T) {
	s := NewState()
	require.True(t, s.Allows(motion.Pan, motion.Manual))
	require.False(t, s.Allows(motion.Pan, motion.Auto))
	require.True(t, s.Allows(motion.Tilt, motion.Manual))

	s.SetAutoTracking(true)
	require.False(t, s.Allows(motion.Pan, motion.Manual))
	require.True(t, s.Allows(motion.Pan, motion.Auto))
	require.True(t, s.Allows(motion.Tilt, motion.Manual))
	require.False(t, s.Allows(motion.Tilt, motion.Auto))
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2, nil)
	cmd := Command{Source: SourceCloud, Name: cloud.Pan, Value: cloud.Int(0)}

	require.True(t, q.Submit(cmd))
	require.True(t, q.Submit(cmd))
	require.False(t, q.Submit(cmd))
	require.Equal(t, 2, q.Len())

	<-q.C()
	require.True(t, q.Submit(cmd))
}

func TestQueue_DefaultSize(t *testing.T) {
	q := NewQueue(0, nil)
	require.Equal(t, DefaultQueueSize, cap(q.ch))
}
