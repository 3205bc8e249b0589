package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Risk assessments by grade and decision
	Assessments *prometheus.CounterVec

	// HTTP latency by route template, method and status
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on a private registry so that tests
// can build as many instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "creditrisk_assessments_total",
			Help: "Total loan risk assessments by grade and decision",
		}, []string{"grade", "decision"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "creditrisk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(
		m.Assessments,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAssessment records one risk evaluation.
func (m *Metrics) ObserveAssessment(grade, decision string) {
	if m != nil {
		m.Assessments.WithLabelValues(grade, decision).Inc()
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
