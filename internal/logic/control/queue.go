package control

import (
	"github.com/cjeanneret/PanTilt/internal/cloud"
	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/metrics"
)

// DefaultQueueSize is used when the configured size is not positive.
const DefaultQueueSize = 32

// Source tells where a command came from.
type Source int

const (
	SourceCloud Source = iota
	SourcePeer
)

func (s Source) String() string {
	if s == SourcePeer {
		return "peer"
	}
	return "cloud"
}

// Command is one external parameter write.
type Command struct {
	Source Source
	Name   string
	Value  cloud.Value
}

// Queue is the bounded inbox shared by every external source.
type Queue struct {
	ch      chan Command
	metrics *metrics.Metrics
}

// NewQueue creates a queue holding at most size pending commands.
func NewQueue(size int, m *metrics.Metrics) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Command, size), metrics: m}
}

// Submit enqueues cmd without blocking. It returns false when the queue is
// full and the command was dropped.
func (q *Queue) Submit(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		debug.Warn("Command queue full, dropping %s %s=%v", cmd.Source, cmd.Name, cmd.Value)
		q.metrics.QueueDropped()
		return false
	}
}

// C returns the receive side of the queue.
func (q *Queue) C() <-chan Command {
	return q.ch
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.ch)
}
