// Package metrics exposes Prometheus instrumentation for fan-out
// invocations. Each Metrics owns its registry, so several instances can
// coexist in one process (and in tests).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fanout"

// Metrics holds the collectors recorded by the runner.
type Metrics struct {
	registry      *prometheus.Registry
	invocations   *prometheus.CounterVec
	duration      prometheus.Histogram
	timeouts      prometheus.Counter
	interruptions prometheus.Counter
	active        prometheus.Gauge
	handler       http.Handler
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Fan-out invocations by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of the fan-out orchestration.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barrier_timeouts_total",
			Help:      "Invocations whose barrier wait ended before every worker counted down.",
		}),
		interruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_interruptions_total",
			Help:      "Workers that stopped early on an error or panic.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_invocations",
			Help:      "Invocations currently orchestrating.",
		}),
	}
	reg.MustRegister(
		m.invocations, m.duration, m.timeouts, m.interruptions, m.active,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler { return m.handler }

// InvocationStarted increments the active gauge.
func (m *Metrics) InvocationStarted() { m.active.Inc() }

// InvocationFinished records the outcome of one invocation and decrements
// the active gauge.
func (m *Metrics) InvocationFinished(status string, d time.Duration) {
	m.active.Dec()
	m.invocations.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}

// BarrierTimedOut counts a wait that ended with workers still outstanding.
func (m *Metrics) BarrierTimedOut() { m.timeouts.Inc() }

// WorkerInterrupted counts a worker that stopped early.
func (m *Metrics) WorkerInterrupted() { m.interruptions.Inc() }
