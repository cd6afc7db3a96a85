package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/feeband-go/metrics"
)

func TestRegistry(t *testing.T) {
	m := metrics.NewMetrics()
	registry, err := metrics.NewRegistry(m)
	require.NoError(t, err)

	m.Runs.WithLabelValues("updated").Inc()
	m.Runs.WithLabelValues("noop").Inc()
	m.Runs.WithLabelValues("noop").Inc()
	m.BaseFee.Set(0.03)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("noop")))
	require.Equal(t, 0.03, testutil.ToFloat64(m.BaseFee))

	families, err := registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}
	require.True(t, names["feeband_runs_total"])
	require.True(t, names["feeband_base_fee"])
}

func TestRegistryRejectsDoubleRegistration(t *testing.T) {
	m := metrics.NewMetrics()
	registry, err := metrics.NewRegistry(m)
	require.NoError(t, err)

	require.Error(t, registry.Register(m.Writes))
}
