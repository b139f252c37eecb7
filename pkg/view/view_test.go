package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
	"github.com/matzehuels/graphlive/pkg/layout"
)

func TestNodesOrderFollowsGraph(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	v := NewNodes(g, s)
	assert.Equal(t, 0, v.Count())

	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	assert.Equal(t, 3, v.Count())

	require.NoError(t, g.RemoveNode(b))
	assert.Equal(t, 2, v.Count())

	idx, ok := v.At(1)
	require.True(t, ok)
	assert.Equal(t, c.Index(), idx, "survivors keep their indices")

	pos, ok := v.Position(a.Index())
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = v.Position(b.Index())
	assert.False(t, ok)

	_, ok = v.At(2)
	assert.False(t, ok)
	_, ok = v.At(-1)
	assert.False(t, ok)

	assert.Equal(t, []int{0, 2}, v.Indices())
}

func TestNodeAttributes(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	v := NewNodes(g, s)
	n := g.AddNode()
	g.AddEdge(n, n)
	s.SetNode(n, attr.Node{X: 1, Y: 2, Width: 3, Height: 4})

	rec, ok := v.Attributes(n.Index())
	require.True(t, ok)
	assert.Equal(t, attr.Node{X: 1, Y: 2, Width: 3, Height: 4, Shape: attr.ShapeRectangle}, rec)

	deg, ok := v.Degree(n.Index())
	require.True(t, ok)
	assert.Equal(t, 2, deg)

	_, ok = v.Attributes(99)
	assert.False(t, ok)
	_, ok = v.Degree(99)
	assert.False(t, ok)
}

func TestEdgesView(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	v := NewEdges(g, s)
	a, b := g.AddNode(), g.AddNode()
	e, _ := g.AddEdge(a, b)
	s.SetEdge(e, attr.Edge{Bends: []attr.Point{{X: 1, Y: 1}}})

	assert.Equal(t, 1, v.Count())
	src, tgt, ok := v.Endpoints(e.Index())
	require.True(t, ok)
	assert.Equal(t, a.Index(), src)
	assert.Equal(t, b.Index(), tgt)

	rec, ok := v.Attributes(e.Index())
	require.True(t, ok)
	assert.Len(t, rec.Bends, 1)

	g.RemoveNode(a)
	assert.Equal(t, 0, v.Count())
	_, _, ok = v.Endpoints(e.Index())
	assert.False(t, ok)
	_, ok = v.Attributes(e.Index())
	assert.False(t, ok)
}

func TestListenersFireOncePerSignal(t *testing.T) {
	g := graph.New()
	v := NewNodes(g, attr.NewStore(g))

	var first, second int
	cancel := v.OnChanged(func() { first++ })
	v.OnChanged(func() { second++ })
	assert.Equal(t, 2, v.Listeners())

	v.AttributesChanged()
	cancel()
	v.AttributesChanged()

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestListenerMayCancelItself(t *testing.T) {
	g := graph.New()
	v := NewEdges(g, attr.NewStore(g))

	calls := 0
	var cancel func()
	cancel = v.OnChanged(func() {
		calls++
		cancel()
	})
	v.AttributesChanged()
	v.AttributesChanged()
	assert.Equal(t, 1, calls)
}

func TestViewsAreLayoutSinks(t *testing.T) {
	g := graph.New()
	s := attr.NewStore(g)
	nodes, edges := NewNodes(g, s), NewEdges(g, s)
	ctrl := layout.NewController(g, s, nil)
	ctrl.AddSink(nodes)
	ctrl.AddSink(edges)

	var nodeSignals, edgeSignals int
	nodes.OnChanged(func() { nodeSignals++ })
	edges.OnChanged(func() { edgeSignals++ })

	ctrl.Suspend()
	for i := 0; i < 5; i++ {
		a, b := g.AddNode(), g.AddNode()
		g.AddEdge(a, b)
		require.NoError(t, ctrl.Invalidate())
	}
	require.NoError(t, ctrl.Resume())

	assert.Equal(t, 1, nodeSignals)
	assert.Equal(t, 1, edgeSignals)
	assert.Equal(t, 10, nodes.Count())
	assert.Equal(t, 5, edges.Count())
}

var (
	_ layout.Sink = (*Nodes)(nil)
	_ layout.Sink = (*Edges)(nil)
)
