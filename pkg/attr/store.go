package attr

import (
	"slices"

	"github.com/matzehuels/graphlive/pkg/graph"
)

// DefaultNode is the record given to nodes that were created without
// explicit geometry.
var DefaultNode = Node{Shape: ShapeRectangle}

// Store holds one record per live element of a graph.
//
// The zero value is not usable - use NewStore, which also registers the
// store as an observer of the graph. Store is not safe for concurrent use.
type Store struct {
	graph *graph.Graph
	nodes map[*graph.Node]Node
	edges map[*graph.Edge]Edge
}

// NewStore creates a store for g and seeds records for the elements g
// already contains.
func NewStore(g *graph.Graph) *Store {
	s := &Store{
		graph: g,
		nodes: make(map[*graph.Node]Node, g.NodeCount()),
		edges: make(map[*graph.Edge]Edge, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		s.nodes[n] = DefaultNode
	}
	for _, e := range g.Edges() {
		s.edges[e] = Edge{}
	}
	g.Observe(s)
	return s
}

// Graph returns the graph whose elements this store describes.
func (s *Store) Graph() *graph.Graph { return s.graph }

// Node returns the record of n. Unknown handles yield [DefaultNode].
func (s *Store) Node(n *graph.Node) Node {
	if rec, ok := s.nodes[n]; ok {
		return rec
	}
	return DefaultNode
}

// SetNode replaces the record of n (bulk setter path). An empty shape
// defaults to [ShapeRectangle]. It reports whether n is live.
func (s *Store) SetNode(n *graph.Node, rec Node) bool {
	if _, ok := s.nodes[n]; !ok {
		return false
	}
	s.nodes[n] = rec.normalized()
	return true
}

// PatchNode updates only the fields set in p. It reports whether n is live.
func (s *Store) PatchNode(n *graph.Node, p Patch) bool {
	cur, ok := s.nodes[n]
	if !ok {
		return false
	}
	s.nodes[n] = p.Apply(cur)
	return true
}

// SetPosition moves n without touching its size or shape.
// Layout algorithms use this to publish their results.
func (s *Store) SetPosition(n *graph.Node, x, y float64) bool {
	return s.PatchNode(n, Patch{X: &x, Y: &y})
}

// Edge returns the record of e. The bend slice is a copy.
func (s *Store) Edge(e *graph.Edge) Edge {
	rec := s.edges[e]
	return Edge{Bends: slices.Clone(rec.Bends)}
}

// SetEdge replaces the record of e. It reports whether e is live.
func (s *Store) SetEdge(e *graph.Edge, rec Edge) bool {
	if _, ok := s.edges[e]; !ok {
		return false
	}
	s.edges[e] = Edge{Bends: slices.Clone(rec.Bends)}
	return true
}

// ClearBends drops all edge bend points, typically before a layout that
// does not route edges.
func (s *Store) ClearBends() {
	for e := range s.edges {
		s.edges[e] = Edge{}
	}
}

// Positions returns the position of every live node keyed by index.
func (s *Store) Positions() map[int]Point {
	out := make(map[int]Point, len(s.nodes))
	for n, rec := range s.nodes {
		out[n.Index()] = rec.Position()
	}
	return out
}

// Snapshot copies all records keyed by element index.
func (s *Store) Snapshot() (map[int]Node, map[int]Edge) {
	nodes := make(map[int]Node, len(s.nodes))
	for n, rec := range s.nodes {
		nodes[n.Index()] = rec
	}
	edges := make(map[int]Edge, len(s.edges))
	for e, rec := range s.edges {
		edges[e.Index()] = Edge{Bends: slices.Clone(rec.Bends)}
	}
	return nodes, edges
}

// Restore writes records captured by Snapshot back onto live elements.
// Indices that no longer resolve are ignored.
func (s *Store) Restore(nodes map[int]Node, edges map[int]Edge) {
	for idx, rec := range nodes {
		if n, ok := s.graph.Node(idx); ok {
			s.nodes[n] = rec
		}
	}
	for idx, rec := range edges {
		if e, ok := s.graph.Edge(idx); ok {
			s.edges[e] = Edge{Bends: slices.Clone(rec.Bends)}
		}
	}
}

// NodeAdded implements graph.Observer.
func (s *Store) NodeAdded(n *graph.Node) { s.nodes[n] = DefaultNode }

// NodeRemoved implements graph.Observer.
func (s *Store) NodeRemoved(n *graph.Node) { delete(s.nodes, n) }

// EdgeAdded implements graph.Observer.
func (s *Store) EdgeAdded(e *graph.Edge) { s.edges[e] = Edge{} }

// EdgeRemoved implements graph.Observer.
func (s *Store) EdgeRemoved(e *graph.Edge) { delete(s.edges, e) }

// Cleared implements graph.Observer.
func (s *Store) Cleared() {
	clear(s.nodes)
	clear(s.edges)
}

var _ graph.Observer = (*Store)(nil)
