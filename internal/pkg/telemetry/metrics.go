package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fulfillment"

// Metrics exposes the order lifecycle counters.
type Metrics struct {
	transitions     *prometheus.CounterVec
	carrierSync     *prometheus.CounterVec
	ambiguousCommit *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order lifecycle transition attempts by source state, target state and outcome.",
		}, []string{"from", "to", "outcome"}),
		carrierSync: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_status_reports_total",
			Help:      "Carrier status reports processed by the reconciler.",
		}, []string{"carrier_status", "outcome"}),
		ambiguousCommit: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguous_commits_total",
			Help:      "Commits whose outcome had to be re-read, by resolution.",
		}, []string{"resolution"}),
	}
}

func (m *Metrics) ObserveTransition(from, to, outcome string) {
	m.transitions.WithLabelValues(from, to, outcome).Inc()
}

func (m *Metrics) ObserveCarrierSync(carrierStatus, outcome string) {
	m.carrierSync.WithLabelValues(carrierStatus, outcome).Inc()
}

func (m *Metrics) ObserveAmbiguousCommit(resolution string) {
	m.ambiguousCommit.WithLabelValues(resolution).Inc()
}
