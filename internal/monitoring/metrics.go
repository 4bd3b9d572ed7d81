package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the shell's Prometheus collectors. Collectors are
// registered on a private registry so tests can create many instances.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Shell metrics
	TabsActive       prometheus.Gauge
	TabsTotal        prometheus.Counter
	NavigationsTotal *prometheus.CounterVec
	FrameLoads       *prometheus.CounterVec
	FrameLoadTime    prometheus.Histogram

	// Agent metrics
	ActionsTotal  *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	ScriptRuns    *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates and registers the collector set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := func(c prometheus.Collector) {
		reg.MustRegister(c)
	}

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shell_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		TabsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_tabs_active",
				Help: "Number of open tabs",
			},
		),
		TabsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_tabs_total",
				Help: "Total number of tabs created",
			},
		),
		NavigationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_navigations_total",
				Help: "Navigation operations by kind",
			},
			[]string{"kind"}, // navigate, back, forward, home, reload
		),
		FrameLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_frame_loads_total",
				Help: "Frame load completions by outcome",
			},
			[]string{"outcome"}, // loaded, failed, timeout
		),
		FrameLoadTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shell_frame_load_seconds",
				Help:    "Frame load wall time in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
			},
		),

		ActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_actions_total",
				Help: "Executed actions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shell_action_batch_seconds",
				Help:    "Action batch duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		ScriptRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_script_runs_total",
				Help: "Sandboxed script executions by outcome",
			},
			[]string{"outcome"},
		),

		WSConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_ws_connections",
				Help: "Open WebSocket connections",
			},
		),
		WSMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_ws_messages_total",
				Help: "WebSocket messages by direction",
			},
			[]string{"direction"}, // sent, received
		),
	}

	factory(m.RequestsTotal)
	factory(m.RequestDuration)
	factory(m.TabsActive)
	factory(m.TabsTotal)
	factory(m.NavigationsTotal)
	factory(m.FrameLoads)
	factory(m.FrameLoadTime)
	factory(m.ActionsTotal)
	factory(m.BatchDuration)
	factory(m.ScriptRuns)
	factory(m.WSConnections)
	factory(m.WSMessages)

	return m
}

// Registry exposes the private registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Uptime returns time since metrics creation.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordNavigation counts one navigation operation.
func (m *Metrics) RecordNavigation(kind string) {
	m.NavigationsTotal.WithLabelValues(kind).Inc()
}

// RecordFrameLoad counts a frame load outcome with its wall time.
func (m *Metrics) RecordFrameLoad(outcome string, duration time.Duration) {
	m.FrameLoads.WithLabelValues(outcome).Inc()
	if outcome == "loaded" {
		m.FrameLoadTime.Observe(duration.Seconds())
	}
}

// RecordAction counts one executed action.
func (m *Metrics) RecordAction(kind string, success bool) {
	outcome := "ok"
	if !success {
		outcome = "failed"
	}
	m.ActionsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordScriptRun counts one sandboxed execution.
func (m *Metrics) RecordScriptRun(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.ScriptRuns.WithLabelValues(outcome).Inc()
}
