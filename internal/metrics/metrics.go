package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects turn-processing counters exposed on /metrics.
type Metrics struct {
	Turns        *prometheus.CounterVec
	Fallbacks    *prometheus.CounterVec
	MatchMethods *prometheus.CounterVec
	TurnLatency  prometheus.Histogram
}

// New registers and returns the service metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "turns_total",
			Help:      "Turns processed, labeled by outcome.",
		}, []string{"outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "fallbacks_total",
			Help:      "Unresolved turns, labeled by escalation tier.",
		}, []string{"tier"}),
		MatchMethods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "answer_matches_total",
			Help:      "Resolved free-form answers, labeled by match method.",
		}, []string{"method"}),
		TurnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trivia",
			Name:      "turn_duration_seconds",
			Help:      "Wall time spent processing one turn.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Turns, m.Fallbacks, m.MatchMethods, m.TurnLatency)
	return m
}
