package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error kinds used as the "kind" label.
const (
	KindMalformedInput = "malformed_input"
	KindEngine         = "engine"
	KindCanceled       = "canceled"
)

// Metrics provides observability for the verification pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Completed verifications by domain, action and risk tier
	Verifications *prometheus.CounterVec

	// Failed verifications by domain, action and error kind
	Errors *prometheus.CounterVec

	// Detection engine call latency by action
	EngineLatency *prometheus.HistogramVec

	EngineCircuitState prometheus.Gauge

	// Verdicts without a usable overall_risk
	Degraded *prometheus.CounterVec

	CatalogReloads    prometheus.Counter
	CatalogLastReload prometheus.Gauge
}

// New registers the verification metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txguard_verifications_total",
			Help: "Completed verifications by domain, action and risk tier",
		}, []string{"domain", "action", "risk_tier"}),

		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txguard_verification_errors_total",
			Help: "Failed verifications by domain, action and error kind",
		}, []string{"domain", "action", "kind"}),

		EngineLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "txguard_engine_duration_seconds",
			Help:    "Duration of detection engine calls by action",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"action"}),

		EngineCircuitState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txguard_engine_circuit_state",
			Help: "Detection engine circuit breaker state (0=closed, 1=open)",
		}),

		Degraded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "txguard_degraded_verdicts_total",
			Help: "Verdicts without a usable overall_risk, by domain",
		}, []string{"domain"}),

		CatalogReloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "txguard_recommendation_catalog_reloads_total",
			Help: "Successful recommendation catalog reloads",
		}),

		CatalogLastReload: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txguard_recommendation_catalog_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful recommendation catalog reload",
		}),
	}
}

func (m *Metrics) IncVerification(domain, action, riskTier string) {
	if m != nil {
		m.Verifications.WithLabelValues(domain, action, riskTier).Inc()
	}
}

func (m *Metrics) IncError(domain, action, kind string) {
	if m != nil {
		m.Errors.WithLabelValues(domain, action, kind).Inc()
	}
}

// ObserveEngineLatency records the duration of one engine call.
func (m *Metrics) ObserveEngineLatency(action string, d time.Duration) {
	if m != nil {
		m.EngineLatency.WithLabelValues(action).Observe(d.Seconds())
	}
}

func (m *Metrics) SetEngineCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.EngineCircuitState.Set(1)
	} else {
		m.EngineCircuitState.Set(0)
	}
}

func (m *Metrics) IncDegraded(domain string) {
	if m != nil {
		m.Degraded.WithLabelValues(domain).Inc()
	}
}

// CatalogReloaded records a successful catalog swap.
func (m *Metrics) CatalogReloaded() {
	if m != nil {
		m.CatalogReloads.Inc()
		m.CatalogLastReload.SetToCurrentTime()
	}
}
