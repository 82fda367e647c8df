package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	require.NoError(t, metrics.Track("mail:send").End(nil))
	boom := errors.New("smtp down")
	require.ErrorIs(t, metrics.Track("mail:send").End(boom), boom)

	require.InDelta(t, 1, testutil.ToFloat64(metrics.runs.WithLabelValues("mail:send", "success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(metrics.runs.WithLabelValues("mail:send", "failure")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(metrics.failures.WithLabelValues("mail:send")), 0)
}

func TestNilMetricsTrackerIsNoop(t *testing.T) {
	var metrics *Metrics
	require.NoError(t, metrics.Track("mail:send").End(nil))
}
