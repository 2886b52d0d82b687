package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsObserve(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("POST", "/api/v1/bookings", "201", 120*time.Millisecond)
	m.Observe("POST", "/api/v1/bookings", "201", 80*time.Millisecond)
	m.Observe("GET", "", "200", time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/bookings", "201"))
	assert.Equal(t, float64(2), count)

	unknown := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "200"))
	assert.Equal(t, float64(1), unknown)
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *HTTPMetrics
	require.NotPanics(t, func() {
		m.Observe("GET", "/", "200", time.Second)
	})

	empty := NewHTTPMetrics(nil)
	require.NotPanics(t, func() {
		empty.Observe("GET", "/", "200", time.Second)
	})
}
