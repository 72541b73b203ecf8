// Package metrics exports advisor and HTTP counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/spigell/career-advisor/internal/advisor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "career_advisor"

// Metrics owns a private registry so tests and multiple servers never collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	GateVerdicts *prometheus.CounterVec
	AICalls      *prometheus.CounterVec
	ResumeScores prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		GateVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gate_verdicts_total",
				Help:      "Chat messages classified by the topic gate",
			},
			[]string{"verdict"},
		),
		AICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_calls_total",
				Help:      "Model-backed operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		ResumeScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resume_score",
				Help:      "Distribution of locally computed resume scores",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveVerdict(v advisor.Verdict) {
	m.GateVerdicts.WithLabelValues(v.String()).Inc()
}

func (m *Metrics) ObserveCall(op advisor.Operation, outcome advisor.Outcome) {
	m.AICalls.WithLabelValues(string(op), string(outcome)).Inc()
}

func (m *Metrics) ObserveScore(score int) {
	m.ResumeScores.Observe(float64(score))
}

// ObserveRequest counts a served request. route should be the mux pattern,
// never the raw path.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

var _ advisor.Observer = (*Metrics)(nil)
