package providers

import (
	"testing"
	"time"

	"e84consent/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncBannerRendered()
	m.IncBannerSkipped()
	m.IncDismissals(DismissAccepted)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_CountsDismissalsByResult(t *testing.T) {
	useTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	m.IncDismissals(DismissAccepted)
	m.IncDismissals(DismissAccepted)
	m.IncDismissals(DismissRejected)

	mp, ok := m.(*MetricsProvider)
	require.True(t, ok)
	assert.Equal(t, float64(2), counterValue(t, mp.dismissals.WithLabelValues(DismissAccepted)))
	assert.Equal(t, float64(1), counterValue(t, mp.dismissals.WithLabelValues(DismissRejected)))
}

func TestMetricsProvider_CountsBannerDecisions(t *testing.T) {
	useTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	m.IncBannerRendered()
	m.IncBannerSkipped()
	m.IncBannerSkipped()

	mp := m.(*MetricsProvider)
	assert.Equal(t, float64(1), counterValue(t, mp.bannerViews.WithLabelValues("rendered")))
	assert.Equal(t, float64(2), counterValue(t, mp.bannerViews.WithLabelValues("skipped")))
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	useTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})

	m.IncRequestsTotal("/consent/ajax", 200)
	m.IncRequestsTotal("/consent/ajax", 403)
	m.ObserveRequestDuration("/consent/ajax", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()

	mp := m.(*MetricsProvider)
	assert.Equal(t, float64(1), counterValue(t, mp.requestsTotal.WithLabelValues("/consent/ajax", "4xx")))
	assert.Equal(t, float64(1), counterValue(t, mp.cacheHits))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{403, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
