package metrics_test

import (
	"testing"

	"bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "test_total",
		Help:      "Test counter.",
	})
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := metrics.Register(reg, newCounter())
	require.NoError(t, err)
	second, err := metrics.Register(reg, newCounter())
	require.NoError(t, err)

	second.Inc()
	assert.InDelta(t, 1.0, testutil.ToFloat64(first), 0)
}

func TestRegister_ConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.Register(reg, newCounter())
	require.NoError(t, err)

	conflicting := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metrics.Namespace,
		Name:      "test_total",
		Help:      "Different help.",
	})
	_, err = metrics.Register(reg, conflicting)
	require.Error(t, err)
}

func TestRegistererOrNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.Same(t, reg, metrics.RegistererOrNew(reg))
	assert.NotNil(t, metrics.RegistererOrNew(nil))
}
