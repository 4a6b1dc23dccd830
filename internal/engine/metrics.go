package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Toggle outcomes recorded on the toggles counter.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Toggles             *prometheus.CounterVec
	Milestones          prometheus.Counter
	PersistenceFailures prometheus.Counter
	Habits              prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests that don't scrape want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Toggles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streaks",
			Name:      "toggles_total",
			Help:      "Day toggles by outcome.",
		}, []string{"outcome"}),
		Milestones: f.NewCounter(prometheus.CounterOpts{
			Namespace: "streaks",
			Name:      "milestones_total",
			Help:      "Streak milestones detected.",
		}),
		PersistenceFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "streaks",
			Name:      "persistence_failures_total",
			Help:      "Saves that failed and left changes in memory only.",
		}),
		Habits: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "streaks",
			Name:      "habits",
			Help:      "Habits currently tracked.",
		}),
	}
}
