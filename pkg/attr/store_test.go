package attr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
)

func TestStoreFollowsGraph(t *testing.T) {
	g := graph.New()
	pre := g.AddNode()
	s := NewStore(g)

	assert.Equal(t, DefaultNode, s.Node(pre), "existing node should be seeded")

	a, b := g.AddNode(), g.AddNode()
	e, err := g.AddEdge(a, b)
	require.NoError(t, err)

	assert.True(t, s.SetNode(a, Node{X: 1, Y: 2, Width: 3, Height: 4}))
	assert.True(t, s.SetEdge(e, Edge{Bends: []Point{{X: 5, Y: 6}}}))

	require.NoError(t, g.RemoveNode(a))
	assert.False(t, s.SetNode(a, Node{}), "removed node must not accept records")
	assert.False(t, s.SetEdge(e, Edge{}), "edge removed with its endpoint")

	g.Clear()
	assert.Empty(t, s.Positions())
}

func TestSetNodeDefaultsShape(t *testing.T) {
	g := graph.New()
	s := NewStore(g)
	n := g.AddNode()

	s.SetNode(n, Node{X: 10, Y: 20, Width: 30, Height: 40})
	assert.Equal(t, ShapeRectangle, s.Node(n).Shape)

	s.SetNode(n, Node{Shape: ShapeEllipse})
	assert.Equal(t, ShapeEllipse, s.Node(n).Shape, "explicit shape is kept")
}

func TestPatchNodeKeepsUnsetFields(t *testing.T) {
	g := graph.New()
	s := NewStore(g)
	n := g.AddNode()
	s.SetNode(n, Node{X: 1, Y: 2, Width: 3, Height: 4, Shape: ShapeRounded})

	w := 30.0
	require.True(t, s.PatchNode(n, Patch{Width: &w}))

	assert.Equal(t, Node{X: 1, Y: 2, Width: 30, Height: 4, Shape: ShapeRounded}, s.Node(n))

	require.True(t, s.SetPosition(n, 7, 8))
	got := s.Node(n)
	assert.Equal(t, Point{X: 7, Y: 8}, got.Position())
	assert.Equal(t, 30.0, got.Width)
}

func TestEdgeBendsAreCopied(t *testing.T) {
	g := graph.New()
	s := NewStore(g)
	a, b := g.AddNode(), g.AddNode()
	e, _ := g.AddEdge(a, b)

	bends := []Point{{X: 1, Y: 1}}
	s.SetEdge(e, Edge{Bends: bends})
	bends[0].X = 99

	got := s.Edge(e)
	assert.Equal(t, 1.0, got.Bends[0].X)
	got.Bends[0].X = 42
	assert.Equal(t, 1.0, s.Edge(e).Bends[0].X)

	s.ClearBends()
	assert.Empty(t, s.Edge(e).Bends)
}

func TestSnapshotRestore(t *testing.T) {
	g := graph.New()
	s := NewStore(g)
	a, b := g.AddNode(), g.AddNode()
	s.SetNode(a, Node{X: 1, Y: 1, Width: 10, Height: 10})
	s.SetNode(b, Node{X: 2, Y: 2, Width: 10, Height: 10})

	nodes, edges := s.Snapshot()
	s.SetPosition(a, 100, 100)
	g.RemoveNode(b)

	s.Restore(nodes, edges)
	assert.Equal(t, Point{X: 1, Y: 1}, s.Node(a).Position())
	assert.Len(t, s.Positions(), 1, "removed node must not be resurrected")
}

func TestSetter(t *testing.T) {
	cur := Node{X: 1, Y: 2, Width: 3, Height: 4, Shape: ShapeRectangle}

	t.Run("record", func(t *testing.T) {
		got, err := Record(Node{X: 9}).Resolve(cur)
		require.NoError(t, err)
		assert.Equal(t, Node{X: 9}, got)
	})

	t.Run("update", func(t *testing.T) {
		got, err := Update(func(n Node) Node { n.X += 10; return n }).Resolve(cur)
		require.NoError(t, err)
		assert.Equal(t, 11.0, got.X)
		assert.Equal(t, cur.Width, got.Width)
	})

	t.Run("zero", func(t *testing.T) {
		var s Setter
		assert.True(t, s.IsZero())
		_, err := s.Resolve(cur)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
	})
}

func TestNodeValid(t *testing.T) {
	assert.True(t, Node{Width: 1, Height: 1}.Valid())
	assert.False(t, Node{X: math.NaN()}.Valid())
	assert.False(t, Node{Y: math.Inf(1)}.Valid())
	assert.False(t, Node{Width: -1}.Valid())
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		want    Shape
		wantErr bool
	}{
		{"", ShapeRectangle, false},
		{"rectangle", ShapeRectangle, false},
		{"ellipse", ShapeEllipse, false},
		{"rounded", ShapeRounded, false},
		{"hexagon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShape(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
