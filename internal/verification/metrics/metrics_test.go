package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncVerification("escrow", "escrow_release", "critical")
	m.IncVerification("escrow", "escrow_release", "critical")
	m.IncError("voting", "vote_submission", KindEngine)
	m.IncDegraded("voting")
	m.SetEngineCircuitOpen(true)
	m.ObserveEngineLatency("escrow_release", 20*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Verifications.WithLabelValues("escrow", "escrow_release", "critical")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Errors.WithLabelValues("voting", "vote_submission", KindEngine)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Degraded.WithLabelValues("voting")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EngineCircuitState), 0)

	m.SetEngineCircuitOpen(false)
	assert.InDelta(t, 0, testutil.ToFloat64(m.EngineCircuitState), 0)

	count, err := testutil.GatherAndCount(reg, "txguard_engine_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_CatalogReloaded(t *testing.T) {
	m := New(prometheus.NewRegistry())
	before := float64(time.Now().Unix())

	m.CatalogReloaded()
	m.CatalogReloaded()

	assert.InDelta(t, 2, testutil.ToFloat64(m.CatalogReloads), 0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.CatalogLastReload), before)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncVerification("escrow", "escrow_creation", "low")
		m.IncError("escrow", "escrow_creation", KindMalformedInput)
		m.ObserveEngineLatency("escrow_creation", time.Second)
		m.SetEngineCircuitOpen(true)
		m.IncDegraded("escrow")
		m.CatalogReloaded()
	})
}
