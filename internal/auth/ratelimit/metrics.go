package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Hits       *prometheus.CounterVec
	Rejections *prometheus.CounterVec
}

// NewMetrics registers the limiter counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sauti_ratelimit_hits_total",
			Help: "Attempts recorded against a rate limit policy",
		}, []string{"action"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sauti_ratelimit_rejections_total",
			Help: "Attempts rejected because the policy budget was used up",
		}, []string{"action"}),
	}
}

func (m *Metrics) hit(action string) {
	if m == nil {
		return
	}
	m.Hits.WithLabelValues(action).Inc()
}

func (m *Metrics) rejected(action string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(action).Inc()
}
