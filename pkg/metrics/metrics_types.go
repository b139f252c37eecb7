// Package metrics exports Prometheus metrics for layout runs, the layout
// cache and the HTTP API.
//
// A [Registry] owns its own prometheus.Registry, so tests and embedded
// editors never collide with the global default. It implements the
// observability hook interfaces; register it at startup:
//
//	reg := metrics.NewRegistry()
//	observability.SetLayoutHooks(reg)
//	observability.SetCacheHooks(reg)
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// Layout Metrics
	LayoutRunsTotal          *prometheus.CounterVec
	LayoutDuration           *prometheus.HistogramVec
	LayoutInvalidationsTotal *prometheus.CounterVec
	GraphNodes               prometheus.Gauge
	GraphEdges               prometheus.Gauge

	// Cache Metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
