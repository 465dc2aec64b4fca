package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers proposal generation. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ProposalsGenerated *prometheus.CounterVec
	MassNotConserved   *prometheus.CounterVec
	FetchFailures      *prometheus.CounterVec
	GenerateLatency    prometheus.Histogram
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer
// to expose them on /metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProposalsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indexcap_proposals_generated_total",
			Help: "Proposals generated by weighting method and region",
		}, []string{"method", "region"}),

		MassNotConserved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indexcap_mass_not_conserved_total",
			Help: "Proposals whose weights do not sum to one",
		}, []string{"method", "region"}),

		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indexcap_fetch_failures_total",
			Help: "Failed constituent fetches by region",
		}, []string{"region"}),

		GenerateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexcap_generate_duration_seconds",
			Help:    "Duration of a full fetch, compute and persist run",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) IncrementGenerated(method, region string, massConserved bool) {
	if m == nil {
		return
	}
	m.ProposalsGenerated.WithLabelValues(method, region).Inc()
	if !massConserved {
		m.MassNotConserved.WithLabelValues(method, region).Inc()
	}
}

func (m *Metrics) IncrementFetchFailure(region string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(region).Inc()
	}
}

func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}
