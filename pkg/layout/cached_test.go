package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/cache"
	"github.com/matzehuels/graphlive/pkg/graph"
)

type cacheCounter struct{ hits, misses, sets int }

func (c *cacheCounter) OnCacheHit(context.Context, string)      { c.hits++ }
func (c *cacheCounter) OnCacheMiss(context.Context, string)     { c.misses++ }
func (c *cacheCounter) OnCacheSet(context.Context, string, int) { c.sets++ }

func TestCachedRestoresResult(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	g, s, nodes := path(t)
	calls := 0
	inner := Func{Label: "stub", Fn: func(g *graph.Graph, s *attr.Store) error {
		calls++
		for _, n := range g.Nodes() {
			s.SetPosition(n, float64(n.Index()*10), 5)
		}
		return nil
	}}
	counter := &cacheCounter{}
	alg := NewCached(inner, fc, nil, 0).WithHooks(counter)
	assert.Equal(t, "stub", alg.Name())
	assert.Equal(t, "stub", alg.Unwrap().Name())

	require.NoError(t, alg.Apply(g, s))
	assert.Equal(t, 1, calls)

	// Scramble positions; a hit must restore them without calling inner.
	for _, n := range nodes {
		s.SetPosition(n, -1, -1)
	}
	require.NoError(t, alg.Apply(g, s))
	assert.Equal(t, 1, calls)
	assert.Equal(t, attr.Point{X: 20, Y: 5}, s.Node(nodes[2]).Position())

	assert.Equal(t, cacheCounter{hits: 1, misses: 1, sets: 1}, *counter)
}

func TestCachedMissesAfterTopologyChange(t *testing.T) {
	g, s, _ := path(t)
	calls := 0
	inner := Func{Fn: func(*graph.Graph, *attr.Store) error { calls++; return nil }}
	fc, _ := cache.NewFileCache(t.TempDir())
	alg := NewCached(inner, fc, nil, 0).WithHooks(&cacheCounter{})

	require.NoError(t, alg.Apply(g, s))
	g.AddNode()
	require.NoError(t, alg.Apply(g, s))
	assert.Equal(t, 2, calls)
}

func TestCachedWithNullCache(t *testing.T) {
	g, s, _ := path(t)
	calls := 0
	inner := Func{Fn: func(*graph.Graph, *attr.Store) error { calls++; return nil }}
	alg := NewCached(inner, cache.NewNullCache(), nil, 0).WithHooks(&cacheCounter{})

	require.NoError(t, alg.Apply(g, s))
	require.NoError(t, alg.Apply(g, s))
	assert.Equal(t, 2, calls)
}

func TestFingerprint(t *testing.T) {
	g, s, nodes := path(t)
	fp := Fingerprint(g, s)

	s.SetPosition(nodes[0], 100, 100)
	assert.Equal(t, fp, Fingerprint(g, s), "positions do not affect the fingerprint")

	w := 99.0
	s.PatchNode(nodes[0], attr.Patch{Width: &w})
	assert.NotEqual(t, fp, Fingerprint(g, s), "sizes do")
}

func TestCachedKeysIncludeCanvas(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	g, s, nodes := path(t)

	small := NewCached(NewCircular(Config{Width: 200, Height: 200}), fc, nil, 0).WithHooks(&cacheCounter{})
	require.NoError(t, small.Apply(g, s))
	smallPos := s.Node(nodes[0]).Position()

	counter := &cacheCounter{}
	large := NewCached(NewCircular(Config{Width: 1000, Height: 1000}), fc, nil, 0).WithHooks(counter)
	require.NoError(t, large.Apply(g, s))

	assert.Equal(t, 0, counter.hits, "a different canvas must not hit")
	assert.NotEqual(t, smallPos, s.Node(nodes[0]).Position())
}

func TestCachedKeysIncludeAlgorithmSettings(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	g, s, nodes := path(t)

	first := NewCached(NewForce(Config{Seed: 1}), fc, nil, 0).WithHooks(&cacheCounter{})
	require.NoError(t, first.Apply(g, s))

	reseeded := Config{Seed: 99, Iterations: 3}
	counter := &cacheCounter{}
	second := NewCached(NewForce(reseeded), fc, nil, 0).WithHooks(counter)
	require.NoError(t, second.Apply(g, s))
	assert.Equal(t, 0, counter.hits, "different seed and iterations must not hit")

	wantG, wantS, wantNodes := path(t)
	require.NoError(t, NewForce(reseeded).Apply(wantG, wantS))
	for i, n := range nodes {
		assert.Equal(t, wantS.Node(wantNodes[i]).Position(), s.Node(n).Position())
	}

	padded := NewCached(NewCircular(Config{Padding: 10}), fc, nil, 0).WithHooks(&cacheCounter{})
	require.NoError(t, padded.Apply(g, s))
	counter = &cacheCounter{}
	wider := NewCached(NewCircular(Config{Padding: 200}), fc, nil, 0).WithHooks(counter)
	require.NoError(t, wider.Apply(g, s))
	assert.Equal(t, 0, counter.hits, "different padding must not hit")
}
