package metrics

import (
	"context"
	"time"

	"github.com/matzehuels/graphlive/pkg/observability"
)

// OnInvalidate implements observability.LayoutHooks.
func (r *Registry) OnInvalidate(deferred bool) {
	mode := "run"
	if deferred {
		mode = "deferred"
	}
	r.LayoutInvalidationsTotal.WithLabelValues(mode).Inc()
}

// OnLayoutStart implements observability.LayoutHooks.
func (r *Registry) OnLayoutStart(algorithm string, nodeCount, edgeCount int) {
	r.GraphNodes.Set(float64(nodeCount))
	r.GraphEdges.Set(float64(edgeCount))
}

// OnLayoutComplete implements observability.LayoutHooks.
func (r *Registry) OnLayoutComplete(algorithm string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.LayoutRunsTotal.WithLabelValues(algorithm, status).Inc()
	r.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "set").Inc()
	r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ observability.LayoutHooks = (*Registry)(nil)
	_ observability.CacheHooks  = (*Registry)(nil)
)
