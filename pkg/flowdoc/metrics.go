package flowdoc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// docMetrics holds Prometheus metrics for editor mutations. A nil *docMetrics
// is valid and records nothing, so instrumentation stays optional.
type docMetrics struct {
	mutations *prometheus.CounterVec // by op
	rejected  *prometheus.CounterVec // by op, locked-flow rejections
	undos     prometheus.Counter
	redos     prometheus.Counter
}

// WithMetrics registers the document's metrics with the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *Document) {
		if reg == nil {
			return
		}
		m := &docMetrics{
			mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "formlane",
				Subsystem: "floweditor",
				Name:      "mutations_total",
				Help:      "Total number of applied structural mutations",
			}, []string{"op"}),
			rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "formlane",
				Subsystem: "floweditor",
				Name:      "mutations_rejected_total",
				Help:      "Total number of mutations rejected on locked flows",
			}, []string{"op"}),
			undos: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "formlane",
				Subsystem: "floweditor",
				Name:      "undos_total",
				Help:      "Total number of undo operations",
			}),
			redos: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "formlane",
				Subsystem: "floweditor",
				Name:      "redos_total",
				Help:      "Total number of redo operations",
			}),
		}
		reg.MustRegister(m.mutations, m.rejected, m.undos, m.redos)
		d.metrics = m
	}
}

func (m *docMetrics) recordMutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *docMetrics) recordRejected(op string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op).Inc()
}

func (m *docMetrics) recordUndo() {
	if m == nil {
		return
	}
	m.undos.Inc()
}

func (m *docMetrics) recordRedo() {
	if m == nil {
		return
	}
	m.redos.Inc()
}
