package providers

import (
	"time"

	"e84consent/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DismissAccepted = "accepted"
	DismissRejected = "rejected"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncBannerRendered()
	IncBannerSkipped()
	IncDismissals(result string)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	bannerViews     *prometheus.CounterVec
	dismissals      *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncBannerRendered() {
	m.bannerViews.WithLabelValues("rendered").Inc()
}

func (m *MetricsProvider) IncBannerSkipped() {
	m.bannerViews.WithLabelValues("skipped").Inc()
}

func (m *MetricsProvider) IncDismissals(result string) {
	m.dismissals.WithLabelValues(result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consent_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consent_markup_cache_hits_total",
			Help: "Total number of banner markup cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consent_markup_cache_misses_total",
			Help: "Total number of banner markup cache misses",
		}),

		bannerViews: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_banner_page_views_total",
			Help: "Page views by banner visibility decision",
		}, []string{"decision"}),

		dismissals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_dismissals_total",
			Help: "Dismissal requests by result",
		}, []string{"result"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncBannerRendered()                               {}
func (n *noopMetrics) IncBannerSkipped()                                {}
func (n *noopMetrics) IncDismissals(_ string)                           {}
