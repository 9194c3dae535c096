// Package metrics exposes Prometheus collectors for the conversation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn paths and outcomes used as label values.
const (
	PathMessage = "message"
	PathAnswer  = "answer"

	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeNotFound     = "not_found"
	OutcomeCollaborator = "collaborator_error"
	OutcomeError        = "error"
)

// Metrics holds the collectors registered on a private registry.
//
// Metrics:
//   - advisor_turns_total{path,outcome} - turns processed by path and outcome
//   - advisor_module_transitions_total{from,to} - module transitions
//   - advisor_questions_emitted_total{type} - structured questions parsed from replies
//   - advisor_sessions_swept_total - sessions evicted by the janitor
//   - advisor_llm_call_duration_seconds{op} - collaborator call latency
type Metrics struct {
	registry *prometheus.Registry

	TurnsTotal       *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	QuestionsEmitted *prometheus.CounterVec
	SessionsSwept    prometheus.Counter
	LLMCallDuration  *prometheus.HistogramVec
}

// New creates a fresh registry with the advisor collectors plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_turns_total",
				Help: "Total number of conversation turns processed",
			},
			[]string{"path", "outcome"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_module_transitions_total",
				Help: "Total number of module transitions",
			},
			[]string{"from", "to"},
		),
		QuestionsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_questions_emitted_total",
				Help: "Total number of structured questions emitted to clients",
			},
			[]string{"type"},
		),
		SessionsSwept: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "advisor_sessions_swept_total",
				Help: "Total number of idle sessions evicted",
			},
		),
		LLMCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_llm_call_duration_seconds",
				Help:    "Duration of language model collaborator calls in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"op"},
		),
	}
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTurn counts a finished turn. Safe on a nil receiver.
func (m *Metrics) ObserveTurn(path, outcome string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(path, outcome).Inc()
}

// ObserveTransition counts a module change.
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	if from == "" {
		from = "none"
	}
	m.TransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveQuestion counts one emitted question of the given type.
func (m *Metrics) ObserveQuestion(questionType string) {
	if m == nil {
		return
	}
	m.QuestionsEmitted.WithLabelValues(questionType).Inc()
}

// ObserveSweep adds evicted sessions to the sweep counter.
func (m *Metrics) ObserveSweep(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.SessionsSwept.Add(float64(removed))
}

// TimeCall returns a func that records the elapsed time for op when invoked.
func (m *Metrics) TimeCall(op string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.LLMCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
