package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/greendilt/digicarbon/internal/footprint"
)

const metricsNamespace = "digicarbon"

// Metrics holds the server's prometheus collectors.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	footprint   *prometheus.HistogramVec
}

// footprintBuckets spans a light user to a heavy multi-device owner, in kg.
//
//nolint:gochecknoglobals // Immutable bucket layout.
var footprintBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// NewMetrics creates the collectors and registers them, together with a
// gauge reporting liveSessions, on reg.
func NewMetrics(reg prometheus.Registerer, liveSessions func() int) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Completed questionnaires by role and source (session or calculate).",
		}, []string{"role", "source"}),
		footprint: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "footprint_kg",
			Help:      "Submitted yearly footprint per category, kg CO2e.",
			Buckets:   footprintBuckets,
		}, []string{"category"}),
	}

	reg.MustRegister(m.requests, m.duration, m.submissions, m.footprint)
	if liveSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Live questionnaire sessions.",
		}, func() float64 { return float64(liveSessions()) }))
	}
	return m
}

func (m *Metrics) observeRequest(route, method string, status int, seconds float64) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
}

// observeSubmission records one computed breakdown. The e-waste category is
// observed as-is; negative credits land in the lowest bucket.
func (m *Metrics) observeSubmission(role footprint.Role, source string, b footprint.Breakdown) {
	m.submissions.WithLabelValues(string(role), source).Inc()
	for _, c := range footprint.Categories() {
		m.footprint.WithLabelValues(string(c)).Observe(b.Value(c))
	}
}
