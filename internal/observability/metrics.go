package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moonshill"

// Metrics holds every collector the engine reports. A nil *Metrics is valid
// and records nothing, so callers never need to check.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	postsGenerated   *prometheus.CounterVec
	unitFailures     *prometheus.CounterVec
	providerAttempts *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	campaigns        *prometheus.CounterVec
	batchDuration    prometheus.Histogram
	batchDispatched  prometheus.Histogram
	marketFetches    *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry. Go runtime and
// process collectors are included.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Ops HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Ops HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Ops HTTP requests currently being served.",
		}),
		postsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_generated_total",
			Help:      "Posts persisted by the composer.",
		}, []string{"platform", "stage", "style"}),
		unitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_failures_total",
			Help:      "Failed (campaign, platform) units by error kind.",
		}, []string{"platform", "kind"}),
		providerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Text/embedding provider calls by outcome.",
		}, []string{"provider", "op", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Provider call latency including retries.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider", "op"}),
		campaigns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_total",
			Help:      "Campaign units by outcome (claimed, skipped reason, paused, advanced).",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one trigger batch.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		batchDispatched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_campaigns",
			Help:      "Campaigns dispatched per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		marketFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_fetches_total",
			Help:      "Market/trend lookups by source and outcome.",
		}, []string{"source", "outcome"}),
	}

	reg.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.postsGenerated,
		m.unitFailures,
		m.providerAttempts,
		m.providerLatency,
		m.campaigns,
		m.batchDuration,
		m.batchDispatched,
		m.marketFetches,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObservePost(platform, stage, style string) {
	if m == nil {
		return
	}
	m.postsGenerated.WithLabelValues(platform, stage, style).Inc()
}

func (m *Metrics) ObserveUnitFailure(platform, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "internal"
	}
	m.unitFailures.WithLabelValues(platform, kind).Inc()
}

func (m *Metrics) ObserveProvider(provider, op string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerAttempts.WithLabelValues(provider, op, outcome).Inc()
	m.providerLatency.WithLabelValues(provider, op).Observe(dur.Seconds())
}

func (m *Metrics) ObserveCampaign(outcome string) {
	if m == nil {
		return
	}
	m.campaigns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveBatch(dur time.Duration, dispatched int) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(dur.Seconds())
	m.batchDispatched.Observe(float64(dispatched))
}

func (m *Metrics) ObserveMarketFetch(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.marketFetches.WithLabelValues(source, outcome).Inc()
}
