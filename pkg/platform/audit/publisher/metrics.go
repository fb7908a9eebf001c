package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit delivery. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Delivered       *prometheus.CounterVec
	Dropped         *prometheus.CounterVec
	DeliveryFailure prometheus.Counter
	CircuitState    prometheus.Gauge
}

const (
	dropSampled     = "sampled"
	dropBufferFull  = "buffer_full"
	dropCircuitOpen = "circuit_open"
)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txguard_audit_events_delivered_total",
			Help: "Audit events written to the sink, by category",
		}, []string{"category"}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txguard_audit_events_dropped_total",
			Help: "Audit events not written, by reason",
		}, []string{"reason"}),
		DeliveryFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "txguard_audit_delivery_failures_total",
			Help: "Sink write failures",
		}),
		CircuitState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txguard_audit_circuit_state",
			Help: "Audit sink circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incDelivered(category string) {
	if m == nil {
		return
	}
	m.Delivered.WithLabelValues(category).Inc()
}

func (m *Metrics) incDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) incFailure() {
	if m == nil {
		return
	}
	m.DeliveryFailure.Inc()
}

func (m *Metrics) setCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitState.Set(1)
	} else {
		m.CircuitState.Set(0)
	}
}
