package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "formschema"

// Metrics holds the server collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Validations *prometheus.CounterVec
	StateWrites *prometheus.CounterVec
}

// NewMetrics registers the server collectors plus Go runtime and process
// metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "components",
				Name:      "validations_total",
				Help:      "Total number of component payload validations",
			},
			[]string{"type", "result"},
		),
		StateWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "writes_total",
				Help:      "Total number of state writes",
			},
			[]string{"operation", "result"},
		),
	}
	m.registry.MustRegister(
		m.Requests,
		m.Duration,
		m.Validations,
		m.StateWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) validation(typeKey string, valid bool) {
	m.Validations.WithLabelValues(typeKey, resultLabel(valid)).Inc()
}

func (m *Metrics) stateWrite(operation string, ok bool) {
	m.StateWrites.WithLabelValues(operation, resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
