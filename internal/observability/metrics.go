package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the hub's operational counters.
//
// Everything registers against the default Prometheus registry, so the
// standard promhttp handler on /metrics serves it with no extra wiring.
type Metrics struct {
	// ActiveConnections is a gauge of currently registered websocket sessions.
	ActiveConnections prometheus.Gauge

	// ConnectionDuration measures session lifetime in seconds.
	// Buckets: 10s, 60s, 300s, 900s, 1800s, 3600s, 7200s
	ConnectionDuration prometheus.Histogram

	// FrameCounter tracks inbound client frames by frame type.
	// Labels: frame (join|leave|set_focus|get_online_users|typing|message|message_status)
	FrameCounter *prometheus.CounterVec

	// ErrorCounter tracks failures by component and error type.
	// Labels: component (socket|router|store|queue), error_type
	ErrorCounter *prometheus.CounterVec

	// QueueTaskCounter counts background task executions.
	// Labels: task, status (success|error)
	QueueTaskCounter *prometheus.CounterVec
}

// NewMetrics creates and registers the hub metrics. Call once at startup.
func NewMetrics() *Metrics {
	return &Metrics{
		ActiveConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "huddle_active_connections",
				Help: "Current number of registered websocket sessions",
			},
		),

		ConnectionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "huddle_connection_duration_seconds",
				Help:    "Lifetime of websocket sessions in seconds",
				Buckets: []float64{10, 60, 300, 900, 1800, 3600, 7200},
			},
		),

		FrameCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_frames_total",
				Help: "Total inbound client frames by frame type",
			},
			[]string{"frame"},
		),

		ErrorCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_errors_total",
				Help: "Total errors by component and error type",
			},
			[]string{"component", "error_type"},
		),

		QueueTaskCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_queue_tasks_total",
				Help: "Total background task executions by task and status",
			},
			[]string{"task", "status"},
		),
	}
}

// ConnectionOpened increments the active session gauge.
func (m *Metrics) ConnectionOpened() {
	m.ActiveConnections.Inc()
}

// ConnectionClosed decrements the gauge and records the session lifetime.
func (m *Metrics) ConnectionClosed(durationSeconds float64) {
	m.ActiveConnections.Dec()
	m.ConnectionDuration.Observe(durationSeconds)
}

// FrameReceived counts one inbound client frame.
func (m *Metrics) FrameReceived(frame string) {
	m.FrameCounter.WithLabelValues(frame).Inc()
}

// RecordError increments the error counter for a component and error type.
func (m *Metrics) RecordError(component, errorType string) {
	m.ErrorCounter.WithLabelValues(component, errorType).Inc()
}

// RecordQueueTask counts one background task execution.
func (m *Metrics) RecordQueueTask(task, status string) {
	m.QueueTaskCounter.WithLabelValues(task, status).Inc()
}
