package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementGenerated("daily", "CPH", false)
	m.IncrementGenerated("daily", "CPH", true)
	m.IncrementFetchFailure("HEL")
	m.ObserveGenerateLatency(time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ProposalsGenerated.WithLabelValues("daily", "CPH")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MassNotConserved.WithLabelValues("daily", "CPH")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues("HEL")))
	require.Equal(t, 1, testutil.CollectAndCount(m.GenerateLatency))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.IncrementGenerated("daily", "CPH", false)
	m.IncrementFetchFailure("CPH")
	m.ObserveGenerateLatency(time.Second)
}
