package entity

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts synchronizations and corrections. A nil *Metrics records nothing.
type Metrics struct {
	syncs          *prometheus.CounterVec
	corrections    *prometheus.CounterVec
	attachFailures prometheus.Counter
	bodies         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on registerer when it is not nil
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rayforce",
			Subsystem: "entity",
			Name:      "syncs_total",
			Help:      "Transform synchronizations between entities and bodies, by direction.",
		}, []string{"direction"}),
		corrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rayforce",
			Subsystem: "entity",
			Name:      "corrections_total",
			Help:      "Invalid entity states corrected in place, by kind.",
		}, []string{"kind"}),
		attachFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rayforce",
			Subsystem: "entity",
			Name:      "attach_failures_total",
			Help:      "AttachBody calls that were aborted.",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rayforce",
			Subsystem: "entity",
			Name:      "bodies",
			Help:      "Physical bodies currently owned by entities.",
		}),
	}

	if registerer != nil {
		for _, c := range []prometheus.Collector{m.syncs, m.corrections, m.attachFailures, m.bodies} {
			if err := registerer.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) sync(direction string) {
	if m != nil {
		m.syncs.WithLabelValues(direction).Inc()
	}
}

func (m *Metrics) correction(kind string) {
	if m != nil {
		m.corrections.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) attachFailure() {
	if m != nil {
		m.attachFailures.Inc()
	}
}

func (m *Metrics) bodyCreated() {
	if m != nil {
		m.bodies.Inc()
	}
}

func (m *Metrics) bodyReleased() {
	if m != nil {
		m.bodies.Dec()
	}
}
