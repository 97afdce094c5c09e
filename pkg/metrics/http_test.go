package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/gift-orders", "200", 30*time.Millisecond)
	m.Observe("GET", "/gift-orders", "200", 45*time.Millisecond)
	m.Observe("POST", "/gift-orders", "400", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var counter *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "http_requests_total" {
			counter = fam
		}
	}
	require.NotNil(t, counter, "expected http_requests_total family")

	total := 0.0
	for _, metric := range counter.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)
}

func TestObserveOnNilMetricsIsNoop(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.Observe("GET", "/", "200", time.Millisecond)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "unknown", normalizeLabel(""))
	assert.Equal(t, "GET", normalizeLabel("GET"))
}
