// Package metrics exports upgrader's observability hooks as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/upgrader/pkg/observability"
)

// Metrics owns a private registry and the collectors fed by the hooks.
type Metrics struct {
	registry *prometheus.Registry

	resolveTotal    *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
	cacheCleared    prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
	sessions        prometheus.Gauge
}

// New creates the collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		resolveTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upgrader_resolve_total",
			Help: "Version resolutions by outcome (found or absent).",
		}, []string{"result"}),
		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "upgrader_resolve_seconds",
			Help:    "Time spent fetching and classifying one package.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upgrader_cache_events_total",
			Help: "Resolution cache lookups by event (hit, miss, shared).",
		}, []string{"event"}),
		cacheCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "upgrader_cache_cleared_entries_total",
			Help: "Reports dropped by cache clears.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upgrader_registry_requests_total",
			Help: "Registry HTTP responses by host and status code.",
		}, []string{"host", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upgrader_registry_request_seconds",
			Help:    "Registry HTTP round-trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upgrader_registry_errors_total",
			Help: "Registry HTTP requests that failed before a response.",
		}, []string{"host"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "upgrader_api_sessions",
			Help: "Open HTTP API sessions.",
		}),
	}
}

// Install routes the global observability hooks into m and returns a
// function that restores the previous hooks.
func (m *Metrics) Install() (restore func()) {
	return observability.Install(observability.Hooks{
		Resolve: resolveHooks{m},
		Cache:   cacheHooks{m},
		HTTP:    httpHooks{m},
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// SessionOpened increments the open-session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the open-session gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

type resolveHooks struct{ m *Metrics }

func (h resolveHooks) OnResolveStart(context.Context, string) {}

func (h resolveHooks) OnResolveComplete(_ context.Context, _ string, found bool, d time.Duration, _ error) {
	result := "absent"
	if found {
		result = "found"
	}
	h.m.resolveTotal.WithLabelValues(result).Inc()
	h.m.resolveDuration.Observe(d.Seconds())
}

type cacheHooks struct{ m *Metrics }

func (h cacheHooks) OnCacheHit(context.Context, string)    { h.m.cacheEvents.WithLabelValues("hit").Inc() }
func (h cacheHooks) OnCacheMiss(context.Context, string)   { h.m.cacheEvents.WithLabelValues("miss").Inc() }
func (h cacheHooks) OnCacheShared(context.Context, string) { h.m.cacheEvents.WithLabelValues("shared").Inc() }
func (h cacheHooks) OnCacheClear(entries int)              { h.m.cacheCleared.Add(float64(entries)) }

type httpHooks struct{ m *Metrics }

func (h httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.m.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.m.httpErrors.WithLabelValues(host).Inc()
}
