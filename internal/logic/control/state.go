package control

import (
	"sync"

	"github.com/cjeanneret/PanTilt/internal/logic/motion"
)

// Mode is the pair of flags that decide who drives the mount.
type Mode struct {
	AutoTracking   bool `json:"auto_tracking"`
	UseCloudSource bool `json:"use_cloud_source"`
}

// State is the shared, lock-protected control mode. It also acts as the
// motion gate: the pan axis belongs to the tracker while AutoTracking is
// set and to manual dispatch otherwise. Tilt is always manual.
type State struct {
	mu   sync.RWMutex
	mode Mode
}

// NewState returns the boot mode: manual, commands from the cloud.
func NewState() *State {
	return &State{mode: Mode{AutoTracking: false, UseCloudSource: true}}
}

// Mode returns a copy of the current mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetAutoTracking sets the flag and reports whether it changed.
func (s *State) SetAutoTracking(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.mode.AutoTracking != on
	s.mode.AutoTracking = on
	return changed
}

// SetUseCloudSource sets the flag and reports whether it changed.
func (s *State) SetUseCloudSource(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.mode.UseCloudSource != on
	s.mode.UseCloudSource = on
	return changed
}

// Allows implements motion.Gate.
func (s *State) Allows(axis motion.AxisID, by motion.Authority) bool {
	if axis != motion.Pan {
		return by == motion.Manual
	}
	if s.Mode().AutoTracking {
		return by == motion.Auto
	}
	return by == motion.Manual
}
