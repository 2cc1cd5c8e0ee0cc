package api

import (
	"github.com/GlintPay/dockercluster/scripts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "dockercluster"

type Metrics struct {
	Renders          *prometheus.CounterVec
	ResolutionErrors prometheus.Counter
}

// NewMetrics registers the API counters with reg, or with nothing when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Scripts rendered, by kind.",
		}, []string{"kind"}),
		ResolutionErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolution_errors_total",
			Help:      "Requests that failed to load or resolve a definition.",
		}),
	}

	for _, k := range scripts.Kinds {
		m.Renders.WithLabelValues(string(k))
	}
	return m
}

func (m *Metrics) rendered(k scripts.Kind) {
	if m != nil {
		m.Renders.WithLabelValues(string(k)).Inc()
	}
}

func (m *Metrics) failed() {
	if m != nil {
		m.ResolutionErrors.Inc()
	}
}
