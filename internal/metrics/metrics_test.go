package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("test rounds and state", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector := NewCollector(reg)

		collector.ObserveRound(1, 0.5)
		collector.ObserveRound(1, 1.5)
		collector.ObserveRound(0, 0)
		collector.ObserveState(2, []float64{0, 1}, []float64{0.1, 0.9})

		require.Equal(t, 2.0, testutil.ToFloat64(collector.rounds.WithLabelValues("1")))
		require.Equal(t, 1.0, testutil.ToFloat64(collector.rounds.WithLabelValues("0")))
		require.Equal(t, 2.0, testutil.ToFloat64(collector.totalReward))
		require.Equal(t, 1.0, testutil.ToFloat64(collector.average.WithLabelValues("1")))
		require.Equal(t, 0.9, testutil.ToFloat64(collector.probability.WithLabelValues("1")))
		require.Equal(t, 1, testutil.CollectAndCount(collector.reward))
	})

	t.Run("test metrics endpoint", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector := NewCollector(reg)
		collector.ObserveRound(3, 1)

		server := NewServer("127.0.0.1", 0, reg)
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

		body, err := io.ReadAll(recorder.Body)
		require.NoError(t, err)
		require.True(t, strings.Contains(string(body), `bandit_rounds_total{arm="3"} 1`))
	})
}
