package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// path builds a -> b -> c plus an isolated node d.
func path(t *testing.T) (*graph.Graph, *attr.Store, []*graph.Node) {
	t.Helper()
	g := graph.New()
	s := attr.NewStore(g)
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)
	return g, s, []*graph.Node{a, b, c, d}
}

func assertInBounds(t *testing.T, s *attr.Store, cfg Config) {
	t.Helper()
	for idx, p := range s.Positions() {
		if p.X < 0 || p.X > cfg.Width || p.Y < 0 || p.Y > cfg.Height {
			t.Errorf("node %d at (%.1f, %.1f) outside %vx%v", idx, p.X, p.Y, cfg.Width, cfg.Height)
		}
	}
}

func TestNewResolvesNames(t *testing.T) {
	for _, name := range Names() {
		alg, err := New(name, Config{})
		require.NoError(t, err, name)
		assert.Equal(t, name, alg.Name())
	}

	alg, err := New("", Config{})
	require.NoError(t, err)
	assert.Equal(t, NameNone, alg.Name())

	_, err = New("spiral", Config{})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestCircularLayout(t *testing.T) {
	g, s, nodes := path(t)
	cfg := DefaultConfig
	require.NoError(t, NewCircular(cfg).Apply(g, s))

	assertInBounds(t, s, cfg)

	cx, cy := cfg.Width/2, cfg.Height/2
	radius := math.Min(cx, cy) - cfg.Padding
	for _, n := range nodes {
		p := s.Node(n).Position()
		assert.InDelta(t, radius, math.Hypot(p.X-cx, p.Y-cy), 1e-6)
	}
	assert.InDelta(t, cx+radius, s.Node(nodes[0]).X, 1e-6, "first node at angle 0")
}

func TestCircularSingleNode(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	n := g.AddNode()
	require.NoError(t, NewCircular(DefaultConfig).Apply(g, s))
	assert.Equal(t, attr.Point{X: 400, Y: 300}, s.Node(n).Position())
}

func TestForceLayout(t *testing.T) {
	g, s, nodes := path(t)
	cfg := DefaultConfig
	require.NoError(t, NewForce(cfg).Apply(g, s))

	assertInBounds(t, s, cfg)

	// Same seed, same result
	first := s.Positions()
	require.NoError(t, NewForce(cfg).Apply(g, s))
	assert.Equal(t, first, s.Positions())

	a, b := s.Node(nodes[0]).Position(), s.Node(nodes[1]).Position()
	assert.False(t, a == b, "distinct nodes should not collapse")
}

func TestForceIgnoresSelfLoops(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	a, b := g.AddNode(), g.AddNode()
	g.AddEdge(a, a)
	g.AddEdge(a, b)

	require.NoError(t, NewForce(DefaultConfig).Apply(g, s))
	for _, n := range []*graph.Node{a, b} {
		assert.True(t, s.Node(n).Valid())
	}
}

func TestHierarchicalLayout(t *testing.T) {
	g, s, nodes := path(t)
	cfg := DefaultConfig
	require.NoError(t, NewHierarchical(cfg).Apply(g, s))

	assertInBounds(t, s, cfg)

	a, b, c, d := nodes[0], nodes[1], nodes[2], nodes[3]
	assert.Less(t, s.Node(a).Y, s.Node(b).Y)
	assert.Less(t, s.Node(b).Y, s.Node(c).Y)
	assert.Equal(t, s.Node(a).Y, s.Node(d).Y, "isolated node is a source")
}

func TestHierarchicalCycle(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)

	levels := layers(g.Nodes())
	require.Len(t, levels, 3, "cycle starts at the first node")
	assert.Equal(t, []*graph.Node{a}, levels[0])

	require.NoError(t, NewHierarchical(DefaultConfig).Apply(g, s))
	assertInBounds(t, s, DefaultConfig)
}

func TestHierarchicalUnreachable(t *testing.T) {
	g := graph.New()
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(a, b)
	g.AddEdge(c, d)
	g.AddEdge(d, c)

	levels := layers(g.Nodes())
	require.Len(t, levels, 2)
	assert.Equal(t, []*graph.Node{a}, levels[0])
	assert.Equal(t, []*graph.Node{b, c, d}, levels[1])
}

func TestAlgorithmsClearBends(t *testing.T) {
	g, s, _ := path(t)
	e := g.Edges()[0]
	s.SetEdge(e, attr.Edge{Bends: []attr.Point{{X: 1, Y: 1}}})

	require.NoError(t, NewCircular(DefaultConfig).Apply(g, s))
	assert.Empty(t, s.Edge(e).Bends)
}

func TestNormalizeDegenerate(t *testing.T) {
	pos := []point{{x: 5, y: 5}, {x: 5, y: 5}}
	normalize(pos, DefaultConfig)
	for _, p := range pos {
		assert.Equal(t, point{x: 400, y: 300}, p)
	}
}
