package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/cache"
	"github.com/matzehuels/graphlive/pkg/graph"
	"github.com/matzehuels/graphlive/pkg/observability"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Cached wraps an Algorithm with a byte cache. The key covers the
// algorithm name and its Config, every node's index, size and shape, and
// every edge's index and endpoints, so a hit is only possible for an
// identical scene laid out with identical settings.
//
// Cache failures are treated as misses; the wrapped algorithm still runs.
type Cached struct {
	inner Algorithm
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
	hooks observability.CacheHooks
}

// NewCached wraps inner. A nil keyer selects the default keyer.
func NewCached(inner Algorithm, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

// WithHooks sets per-instance cache hooks instead of the global ones.
func (c *Cached) WithHooks(h observability.CacheHooks) *Cached {
	c.hooks = h
	return c
}

// Name returns the wrapped algorithm's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Unwrap returns the wrapped algorithm.
func (c *Cached) Unwrap() Algorithm { return c.inner }

// Apply restores a cached result or runs the wrapped algorithm and stores
// its result.
func (c *Cached) Apply(g *graph.Graph, s *attr.Store) error {
	ctx := context.Background()
	hooks := c.hooks
	if hooks == nil {
		hooks = observability.Cache()
	}
	opts := cache.LayoutKeyOpts{Algorithm: c.inner.Name()}
	if cv, ok := c.inner.(canvas); ok {
		cfg := cv.Config()
		opts.Width, opts.Height = cfg.Width, cfg.Height
		opts.Iterations, opts.Padding, opts.Seed = cfg.Iterations, cfg.Padding, cfg.Seed
	}
	key := c.keyer.LayoutKey(Fingerprint(g, s), opts)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var res cachedResult
		if json.Unmarshal(data, &res) == nil {
			hooks.OnCacheHit(ctx, cacheKeyType)
			s.Restore(res.Nodes, res.Edges)
			return nil
		}
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	if err := c.inner.Apply(g, s); err != nil {
		return err
	}

	nodes, edges := s.Snapshot()
	data, err := json.Marshal(cachedResult{Nodes: nodes, Edges: edges})
	if err != nil {
		return nil
	}
	if c.cache.Set(ctx, key, data, c.ttl) == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return nil
}

// canvas is implemented by algorithms whose result depends on Config.
type canvas interface {
	Config() Config
}

type cachedResult struct {
	Nodes map[int]attr.Node `json:"nodes"`
	Edges map[int]attr.Edge `json:"edges"`
}

// Fingerprint hashes the layout-relevant content of g and s: topology,
// node sizes and shapes, but not positions.
func Fingerprint(g *graph.Graph, s *attr.Store) string {
	type fpNode struct {
		I     int        `json:"i"`
		W     float64    `json:"w"`
		H     float64    `json:"h"`
		Shape attr.Shape `json:"s"`
	}
	type fpEdge struct {
		I, S, T int
	}
	fp := struct {
		Nodes []fpNode `json:"n"`
		Edges []fpEdge `json:"e"`
	}{}
	for _, n := range g.Nodes() {
		rec := s.Node(n)
		fp.Nodes = append(fp.Nodes, fpNode{n.Index(), rec.Width, rec.Height, rec.Shape})
	}
	for _, e := range g.Edges() {
		fp.Edges = append(fp.Edges, fpEdge{e.Index(), e.Source().Index(), e.Target().Index()})
	}
	data, _ := json.Marshal(fp)
	return cache.Hash(data)
}
