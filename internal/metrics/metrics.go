// Package metrics exposes controller counters on a private Prometheus registry.
// Every recorder method accepts a nil receiver so components can run without metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pantilt"

// Metrics holds all collectors.
type Metrics struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	axisMoves       *prometheus.CounterVec
	servoAngle      prometheus.Gauge
	trackingActions *prometheus.CounterVec
	queueDropped    prometheus.Counter
	peerFrames      *prometheus.CounterVec
	mode            *prometheus.GaugeVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "External commands by source, parameter and outcome.",
		}, []string{"source", "name", "result"}),
		axisMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "axis_commands_total",
			Help:      "Motor axis direction commands by axis, direction and whether they were applied.",
		}, []string{"axis", "direction", "applied"}),
		servoAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "servo_angle_degrees",
			Help:      "Last commanded servo angle.",
		}),
		trackingActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_actions_total",
			Help:      "Autonomous tracking decisions.",
		}, []string{"action"}),
		queueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_dropped_total",
			Help:      "Commands dropped because the inbound queue was full.",
		}),
		peerFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_frames_total",
			Help:      "Peer-to-peer datagrams by outcome.",
		}, []string{"result"}),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mode",
			Help:      "Control mode flags (1 = set).",
		}, []string{"flag"}),
	}
	m.registry.MustRegister(
		m.commands,
		m.axisMoves,
		m.servoAngle,
		m.trackingActions,
		m.queueDropped,
		m.peerFrames,
		m.mode,
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		// Opt into OpenMetrics to support exemplars.
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Command counts one external command.
func (m *Metrics) Command(source, name, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(source, name, result).Inc()
}

// AxisCommand counts one direction command on an axis.
func (m *Metrics) AxisCommand(axis, direction string, applied bool) {
	if m == nil {
		return
	}
	m.axisMoves.WithLabelValues(axis, direction, strconv.FormatBool(applied)).Inc()
}

// ServoAngle records the last servo angle.
func (m *Metrics) ServoAngle(angle int) {
	if m == nil {
		return
	}
	m.servoAngle.Set(float64(angle))
}

// TrackingAction counts one tracking decision.
func (m *Metrics) TrackingAction(action string) {
	if m == nil {
		return
	}
	m.trackingActions.WithLabelValues(action).Inc()
}

// QueueDropped counts one dropped command.
func (m *Metrics) QueueDropped() {
	if m == nil {
		return
	}
	m.queueDropped.Inc()
}

// PeerFrame counts one peer datagram.
func (m *Metrics) PeerFrame(result string) {
	if m == nil {
		return
	}
	m.peerFrames.WithLabelValues(result).Inc()
}

// Mode records a mode flag.
func (m *Metrics) Mode(flag string, set bool) {
	if m == nil {
		return
	}
	v := 0.0
	if set {
		v = 1
	}
	m.mode.WithLabelValues(flag).Set(v)
}
