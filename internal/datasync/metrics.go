package datasync

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts worker outcomes. A nil *Metrics records nothing.
type Metrics struct {
	messages *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_messages_total",
				Help: "Sync messages handled by the worker, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_process_duration_seconds",
			Help:    "Time spent applying one sync message to its target regions.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if err := reg.Register(m.messages); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) outcome(name string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(name).Inc()
}

func (m *Metrics) observe(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
